package idgen

import (
	"fmt"
	"sync"
	"time"

	sf "github.com/bwmarrin/snowflake"
)

// epoch 2024-01-01 UTC
var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

var (
	node     *sf.Node
	nodeOnce sync.Once
	mu       sync.Mutex
)

// Init 初始化雪花算法节点，machineID 取值 0-1023
func Init(machineID int64) error {
	mu.Lock()
	defer mu.Unlock()

	sf.Epoch = epoch.UnixNano() / int64(time.Millisecond)
	n, err := sf.NewNode(machineID)
	if err != nil {
		return fmt.Errorf("创建雪花节点失败: %w", err)
	}
	node = n
	return nil
}

// NewID 生成字符串形式的唯一ID，未初始化时使用节点0
func NewID() string {
	nodeOnce.Do(func() {
		mu.Lock()
		ready := node != nil
		mu.Unlock()
		if !ready {
			_ = Init(0)
		}
	})
	mu.Lock()
	defer mu.Unlock()
	return node.Generate().String()
}
