package ast

// NodeID is a stable handle of a node inside a Tree's arena (1-based).
type NodeID uint32

// NoNodeID marks an absent child (e.g. a missing `else` or an array hole).
const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }
