package store

import "fmt"

// BlockPtr identifies a block for reorg detection, matching common::base::BlockPtr.
type BlockPtr struct {
	Number     uint64
	Hash       string
	ParentHash string
}

// IsParentOf reports whether bp is the direct parent of child: their hashes
// chain and the block numbers are consecutive.
func (bp BlockPtr) IsParentOf(child BlockPtr) bool {
	return bp.Hash == child.ParentHash && bp.Number+1 == child.Number
}

func (bp BlockPtr) String() string {
	return fmt.Sprintf("#%d(%s)", bp.Number, bp.Hash)
}

// IsZero reports whether bp is the unset BlockPtr value.
func (bp BlockPtr) IsZero() bool {
	return bp.Number == 0 && bp.Hash == "" && bp.ParentHash == ""
}
