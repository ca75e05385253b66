package hostexports

import (
	"github.com/sirupsen/logrus"
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/chainindex/corert/asc"
	"github.com/chainindex/corert/errs"
)

// logLevel matches graph-ts's Level enum: DEBUG = 0, INFO = 1, WARNING =
// 2, ERROR = 3, CRITICAL = 4. A CRITICAL log aborts the handler, the same
// way the original runtime treats it as an unrecoverable mapping error.
const (
	logLevelDebug = iota
	logLevelInfo
	logLevelWarning
	logLevelError
	logLevelCritical
)

// logExports implements `log.log` (spec section 4.3's "Logging"),
// routing through the injected logrus.FieldLogger so log lines from the
// guest carry the same fields (block/datasource context) as the host's
// own structured logs.
func logExports(wstore *wasmer.Store, inst asc.Heap, log logrus.FieldLogger) map[string]wasmer.IntoExtern {
	logLog := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(2), noResults()),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			level := args[0].I32()
			message, err := asc.ReadString(inst, asc.NewPtr[string](uint32(args[1].I32())))
			if err != nil {
				return nil, err
			}
			switch level {
			case logLevelDebug:
				log.Debug(message)
			case logLevelInfo:
				log.Info(message)
			case logLevelWarning:
				log.Warn(message)
			case logLevelError:
				log.Error(message)
			case logLevelCritical:
				log.Error(message)
				return nil, errs.NewHeapErr(errs.UnknownVariant, "log.log: critical error from mapping: %s", message)
			default:
				log.WithField("level", level).Info(message)
			}
			return nil, nil
		},
	)

	return map[string]wasmer.IntoExtern{
		"log.log": logLog,
	}
}
