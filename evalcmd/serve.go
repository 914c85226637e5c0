package evalcmd

import (
	"go.brendoncarroll.net/star"
	"golang.org/x/sync/errgroup"

	"rankeval.org/rankeval/evalhttp"
)

var serve = star.Command{
	Metadata: star.Metadata{
		Short: "serve the expression catalog over HTTP",
	},
	Flags: []star.IParam{DBParam, ListenerParam},
	F: func(c star.Context) error {
		cat, err := newCatalog(c)
		if err != nil {
			return err
		}
		lis := ListenerParam.Load(c)
		srv := evalhttp.New(cat)
		eg, ctx := errgroup.WithContext(c.Context)
		eg.Go(func() error { return srv.Serve(ctx, lis) })
		eg.Go(func() error {
			<-ctx.Done()
			return srv.Shutdown()
		})
		return eg.Wait()
	},
}
