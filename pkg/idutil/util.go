package idutil

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	once sync.Once
	node *snowflake.Node
)

// NewID generates a time-ordered unique id for posts and comments. Node 0 is
// fine for a single writer fleet; multi-node deployments set the node number
// via snowflake epoch configuration at process start.
func NewID() int64 {
	once.Do(func() {
		var err error
		node, err = snowflake.NewNode(0)
		if err != nil {
			panic(err)
		}
	})

	return node.Generate().Int64()
}

// CreatedAtMilli extracts the creation timestamp embedded in a snowflake id.
func CreatedAtMilli(id int64) int64 {
	return snowflake.ParseInt64(id).Time()
}
