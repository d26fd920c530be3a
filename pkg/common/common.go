package common

import (
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	idNode     *snowflake.Node
	idNodeOnce sync.Once
)

func node() *snowflake.Node {
	idNodeOnce.Do(func() {
		n, err := snowflake.NewNode(1)
		if err != nil {
			panic(err)
		}
		idNode = n
	})
	return idNode
}

// UUIDint64 returns a time ordered unique id.
func UUIDint64() int64 {
	return node().Generate().Int64()
}

// UUIDBase58 returns a short unique token, used for cart ids.
func UUIDBase58() string {
	return node().Generate().Base58()
}

func IsEmptyOrNA(val string) bool {
	val = strings.TrimSpace(val)
	return val == "" || strings.EqualFold(val, "N/A")
}

// IfEmptyStr returns defval when src is blank.
func IfEmptyStr(src string, defval string) string {
	if IsEmptyOrNA(src) {
		return defval
	}
	return src
}
