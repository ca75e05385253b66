package hostexports

import (
	"github.com/sirupsen/logrus"
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/chainindex/corert/asc"
)

// legacyExports implements the `index` umbrella module spec section 6
// documents as the legacy import surface for apiVersion <= 0.0.4: every
// mapping compiled against that older graph-ts re-exports store,
// conversion, log, bigint, bigdecimal and datasource under one namespace
// rather than the current per-concern module split.
func legacyExports(wstore *wasmer.Store, inst asc.Heap, cfg BuildConfig, log logrus.FieldLogger) map[string]wasmer.IntoExtern {
	out := map[string]wasmer.IntoExtern{}
	for k, v := range storeExports(wstore, inst, cfg) {
		out[k] = v
	}
	for k, v := range conversionExports(wstore, inst) {
		out[k] = v
	}
	for k, v := range numbersExports(wstore, inst) {
		out[k] = v
	}
	for k, v := range logExports(wstore, inst, log) {
		out[k] = v
	}
	for k, v := range datasourceExports(wstore, inst, cfg) {
		out["dataSource."+k] = v
	}
	return out
}
