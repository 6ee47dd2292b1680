package idgen

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node   *snowflake.Node
	nodeMu sync.Mutex
)

// Init sets up the process-wide node used for database row ids.
func Init(nodeID int64) error {
	nodeMu.Lock()
	defer nodeMu.Unlock()

	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return fmt.Errorf("init snowflake node %d: %w", nodeID, err)
	}
	node = n
	return nil
}

// GenerateID returns a snowflake id from the process-wide node, initialising
// node 1 when Init was never called.
func GenerateID() int64 {
	nodeMu.Lock()
	if node == nil {
		node, _ = snowflake.NewNode(1)
	}
	n := node
	nodeMu.Unlock()
	return n.Generate().Int64()
}

// Snowflake issues "<PREFIX>-<snowflake>" ids for domain entities.
type Snowflake struct {
	node *snowflake.Node
}

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("init snowflake node %d: %w", nodeID, err)
	}
	return &Snowflake{node: n}, nil
}

func (s *Snowflake) NewID(prefix string) string {
	return prefix + "-" + s.node.Generate().String()
}
