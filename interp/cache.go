package interp

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"

	"rankeval.org/rankeval/nodes"
	"rankeval.org/rankeval/tensor"
)

// Cache memoizes compiled Functions by source and parameter list. Functions
// are immutable, so a cached entry can be handed to any number of goroutines.
type Cache struct {
	engine tensor.Engine
	lru    *lru.Cache[string, *Function]
}

func NewCache(engine tensor.Engine, size int) (*Cache, error) {
	l, err := lru.New[string, *Function](size)
	if err != nil {
		return nil, err
	}
	return &Cache{engine: engine, lru: l}, nil
}

// Get returns the compiled form of expr over params, compiling on miss.
func (c *Cache) Get(ctx context.Context, expr string, params []string) (*Function, error) {
	key := strings.Join(params, ",") + "|" + expr
	if fn, ok := c.lru.Get(key); ok {
		return fn, nil
	}
	root, err := nodes.Parse(expr, params)
	if err != nil {
		return nil, err
	}
	fn := Compile(ctx, c.engine, root, len(params))
	c.lru.Add(key, fn)
	logctx.Debug(ctx, "cached compiled expression", zap.Int("len", len(expr)), zap.Int("params", len(params)))
	return fn, nil
}

func (c *Cache) Len() int {
	return c.lru.Len()
}
