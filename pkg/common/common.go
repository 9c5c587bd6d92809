package common

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	snowflakeNode *snowflake.Node
	snowflakeOnce sync.Once
)

func node() *snowflake.Node {
	snowflakeOnce.Do(func() {
		nodeID := int64(1)
		if v := os.Getenv("STOREFRONT_NODE_ID"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 && n <= 1023 {
				nodeID = n
			}
		}
		n, err := snowflake.NewNode(nodeID)
		if err != nil {
			panic(err)
		}
		snowflakeNode = n
	})
	return snowflakeNode
}

// UUIDint64 generates a cluster-safe int64 identifier.
func UUIDint64() int64 {
	return node().Generate().Int64()
}

// UUID generates a cluster-safe string identifier.
func UUID() string {
	return node().Generate().String()
}

// IfEmptyStr returns defval when src is empty.
func IfEmptyStr(src string, defval string) string {
	if src == "" {
		return defval
	}
	return src
}
