// Package pipeline implements the Block Pipeline Controller (spec section
// 4.5): block classification against a recent-BlockPtr window and the
// per-block handler-invocation algorithm. Grounded directly on
// original_source/src/components/inspector.rs's Inspector/BlockInspectionResult,
// ported from a VecDeque<BlockPtr> to an equivalent Go slice used as a
// front/back deque.
package pipeline

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/chainindex/corert/store"
)

// InspectionResult classifies an incoming block relative to the recent
// window, matching BlockInspectionResult exactly.
type InspectionResult int

const (
	OkToProceed InspectionResult = iota
	BlockAlreadyProcessed
	UnexpectedBlock
	MaybeReorg
	ForkBlock
	UnrecognizedBlock
)

func (r InspectionResult) String() string {
	switch r {
	case OkToProceed:
		return "ok_to_proceed"
	case BlockAlreadyProcessed:
		return "block_already_processed"
	case UnexpectedBlock:
		return "unexpected_block"
	case MaybeReorg:
		return "maybe_reorg"
	case ForkBlock:
		return "fork_block"
	case UnrecognizedBlock:
		return "unrecognized_block"
	default:
		return "unknown"
	}
}

// StartBlock is the subgraph's configured ingestion starting point:
// either an explicit block number or "latest" (begin at whatever block
// arrives first).
type StartBlock struct {
	Latest bool
	Number uint64
}

func StartAt(n uint64) StartBlock { return StartBlock{Number: n} }
func StartAtLatest() StartBlock   { return StartBlock{Latest: true} }

// Inspector holds the bounded recent-BlockPtr window (front = most recent,
// back = oldest retained) and classifies each incoming block against it.
type Inspector struct {
	recent         []store.BlockPtr // front (index 0) is most recent
	startBlock     StartBlock
	reorgThreshold uint16
	log            logrus.FieldLogger
}

// NewInspector builds an Inspector seeded with any already-known recent
// BlockPtrs (e.g. reloaded from the extern store on restart), sorted
// newest-first as the original does via sort_by_key + reverse.
func NewInspector(recent []store.BlockPtr, startBlock StartBlock, reorgThreshold uint16, log logrus.FieldLogger) *Inspector {
	if log == nil {
		log = logrus.StandardLogger()
	}
	sorted := make([]store.BlockPtr, len(recent))
	copy(sorted, recent)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number > sorted[j].Number })
	return &Inspector{
		recent:         sorted,
		startBlock:     startBlock,
		reorgThreshold: reorgThreshold,
		log:            log,
	}
}

// ExpectedBlockNumber returns the block number this Inspector expects
// next: one past the most recently accepted block, or the configured
// start block if nothing has been accepted yet.
func (in *Inspector) ExpectedBlockNumber() StartBlock {
	if len(in.recent) == 0 {
		return in.startBlock
	}
	return StartAt(in.recent[0].Number + 1)
}

// Check classifies newBlockPtr and mutates the recent window accordingly
// (pushing, evicting, or truncating), exactly mirroring Inspector::check_block.
func (in *Inspector) Check(newBlockPtr store.BlockPtr) InspectionResult {
	if len(in.recent) == 0 {
		expected := in.ExpectedBlockNumber()
		if expected.Latest {
			in.recent = append([]store.BlockPtr{newBlockPtr}, in.recent...)
			return OkToProceed
		}
		if newBlockPtr.Number == expected.Number {
			in.recent = append([]store.BlockPtr{newBlockPtr}, in.recent...)
			return OkToProceed
		}
		in.log.WithFields(logrus.Fields{
			"expected_block_number": expected.Number,
			"received_block_number": newBlockPtr.Number,
		}).Error("received an unexpected block whose number does not match subgraph's required start-block")
		return UnexpectedBlock
	}

	lastProcessed := in.recent[0]
	if lastProcessed.IsParentOf(newBlockPtr) {
		in.recent = append([]store.BlockPtr{newBlockPtr}, in.recent...)
		if len(in.recent) > int(in.reorgThreshold) {
			in.recent = in.recent[:len(in.recent)-1]
		}
		return OkToProceed
	}

	if newBlockPtr.Number > lastProcessed.Number+1 {
		in.log.WithFields(logrus.Fields{
			"expected_block_number": lastProcessed.Number + 1,
			"received_block_number": newBlockPtr.Number,
		}).Error("received an invalid block whose number is larger than expected")
		return UnexpectedBlock
	}

	back := in.recent[len(in.recent)-1]
	if newBlockPtr.Number < back.Number {
		in.log.WithFields(logrus.Fields{
			"received_block":           newBlockPtr,
			"recent_blocks_processed": back.String() + " ... " + lastProcessed.String(),
		}).Error("block not recognized: reorg too deep, reorg threshold too shallow, wrong block source, or store/subgraph block-pointer mismatch")
		return UnrecognizedBlock
	}

	for _, b := range in.recent {
		if b == newBlockPtr {
			if newBlockPtr.Number%10 == 0 {
				in.log.WithField("block", newBlockPtr).Warn("received a block that was already processed before")
			}
			return BlockAlreadyProcessed
		}
		if b.IsParentOf(newBlockPtr) {
			in.log.WithFields(logrus.Fields{
				"fork_block":   newBlockPtr,
				"parent_block": b,
			}).Info("reorg happened and a proper fork-block received")
			kept := in.recent[:0]
			for _, r := range in.recent {
				if r.Number < newBlockPtr.Number {
					kept = append(kept, r)
				}
			}
			in.recent = append([]store.BlockPtr{newBlockPtr}, kept...)
			return ForkBlock
		}
	}

	return MaybeReorg
}

// Recent returns a copy of the current recent-BlockPtr window, newest first.
func (in *Inspector) Recent() []store.BlockPtr {
	out := make([]store.BlockPtr, len(in.recent))
	copy(out, in.recent)
	return out
}
