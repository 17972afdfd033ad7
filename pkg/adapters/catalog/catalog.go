package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/renjie/prism-qudt/pkg/core/domain"
)

// ErrUnknownUnit 单位符号未注册
var ErrUnknownUnit = errors.New("unknown unit")

// Catalog 单位注册表 (按符号索引)
// 实现 ports.UnitRepository 接口
type Catalog struct {
	units map[string]domain.Unit
	mu    sync.RWMutex
}

var (
	instance *Catalog
	once     sync.Once
)

// Default returns the shared catalog of predefined units.
func Default() *Catalog {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New 创建包含全部预定义单位的注册表
// 测试中需要隔离的注册表时使用
func New() *Catalog {
	c := &Catalog{units: make(map[string]domain.Unit)}
	for _, u := range predefined() {
		c.Register(u.String(), u)
	}
	return c
}

// Register 添加或覆盖一个单位
func (c *Catalog) Register(symbol string, u domain.Unit) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.units[symbol] = u
}

// Lookup 按符号查找单位
func (c *Catalog) Lookup(symbol string) (domain.Unit, error) {
	c.mu.RLock()
	u, ok := c.units[symbol]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, symbol)
	}
	return u, nil
}

// Units 返回全部单位，按量纲分组、组内按符号排序
func (c *Catalog) Units() []domain.Unit {
	c.mu.RLock()
	out := make([]domain.Unit, 0, len(c.units))
	for _, u := range c.units {
		out = append(out, u)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].Dimension().String(), out[j].Dimension().String()
		if di != dj {
			return di < dj
		}
		return out[i].String() < out[j].String()
	})
	return out
}

// ConvertibleWith 返回与 u 可互相换算的全部单位
func (c *Catalog) ConvertibleWith(u domain.Unit) []domain.Unit {
	var out []domain.Unit
	for _, candidate := range c.Units() {
		if u.IsConvertible(candidate) {
			out = append(out, candidate)
		}
	}
	return out
}
