package client

import (
	"github.com/tronwallet/walletgo/common/errors"
	"github.com/tronwallet/walletgo/server/jsonrpc"
)

// NodeSelector picks the full node a LedgerClient talks to. It is owned by
// the caller and is not safe for concurrent use.
type NodeSelector struct {
	Candidates []string
	index      int
}

func NewNodeSelector(candidates ...string) (*NodeSelector, error) {
	if len(candidates) == 0 {
		return nil, errors.IllegalArgumentError.New("no full node configured")
	}
	return &NodeSelector{
		Candidates: append([]string(nil), candidates...),
	}, nil
}

func (s *NodeSelector) Current() string {
	return s.Candidates[s.index%len(s.Candidates)]
}

// Next moves to the following candidate in round-robin order and returns it.
func (s *NodeSelector) Next() string {
	s.index = (s.index + 1) % len(s.Candidates)
	return s.Current()
}

// SelectByWitness makes the node of the witness with the fewest missed
// blocks current. nodes maps a witness URL to its full node endpoint.
// Nothing changes if that witness has no entry in nodes.
func (s *NodeSelector) SelectByWitness(witnesses []jsonrpc.Witness, nodes map[string]string) (string, bool) {
	var best *jsonrpc.Witness
	for i := range witnesses {
		if best == nil || witnesses[i].TotalMissed < best.TotalMissed {
			best = &witnesses[i]
		}
	}
	if best == nil {
		return "", false
	}
	node, ok := nodes[best.URL]
	if !ok || node == "" {
		return "", false
	}
	for i, c := range s.Candidates {
		if c == node {
			s.index = i
			return node, true
		}
	}
	s.Candidates = append(s.Candidates, node)
	s.index = len(s.Candidates) - 1
	return node, true
}
