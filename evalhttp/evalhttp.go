// package evalhttp exposes the expression catalog over a JSON HTTP API.
package evalhttp

import (
	"context"
	"errors"
	"net"

	"github.com/gofiber/fiber/v2"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"

	"rankeval.org/rankeval/exprdb"
)

func Serve(ctx context.Context, l net.Listener, cat *exprdb.Catalog) error {
	return New(cat).Serve(ctx, l)
}

type Server struct {
	cat *exprdb.Catalog
	app *fiber.App
}

func New(cat *exprdb.Catalog) *Server {
	s := &Server{cat: cat}
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	v1 := app.Group("/v1")
	v1.Get("/exprs", s.list)
	v1.Put("/exprs/:name", s.put)
	v1.Get("/exprs/:name", s.get)
	v1.Delete("/exprs/:name", s.delete)
	v1.Post("/exprs/:name/eval", s.eval)
	s.app = app
	return s
}

func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	logctx.Infof(ctx, "serving on %v", l.Addr())
	return s.app.Listener(l)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

type putReq struct {
	Expr   string   `json:"expr"`
	Params []string `json:"params"`
}

func (s *Server) put(c *fiber.Ctx) error {
	ctx := c.Context()
	var req putReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	name := c.Params("name")
	if err := s.cat.Put(ctx, name, req.Expr, req.Params); err != nil {
		logctx.Error(ctx, "put expression", zap.String("name", name), zap.Error(err))
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) get(c *fiber.Ctx) error {
	e, err := s.cat.Get(c.Context(), c.Params("name"))
	if err != nil {
		if errors.Is(err, exprdb.ErrNotFound) {
			return fiber.ErrNotFound
		}
		return err
	}
	return c.JSON(fiber.Map{"name": e.Name, "expr": e.Expr, "params": e.Params})
}

func (s *Server) list(c *fiber.Ctx) error {
	names, err := s.cat.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"names": names})
}

func (s *Server) delete(c *fiber.Ctx) error {
	if err := s.cat.Delete(c.Context(), c.Params("name")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type evalReq struct {
	Args map[string]any `json:"args"`
}

func (s *Server) eval(c *fiber.Ctx) error {
	ctx := c.Context()
	var req evalReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	name := c.Params("name")
	res, err := s.cat.Eval(ctx, name, req.Args)
	if err != nil {
		if errors.Is(err, exprdb.ErrNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(res)
}
