// package evalcmd implements the rankeval command line tool.
package evalcmd

import (
	"context"
	"net"

	"github.com/jmoiron/sqlx"
	"go.brendoncarroll.net/star"

	"rankeval.org/rankeval/exprdb"
)

// cacheSize bounds the number of compiled programs held per catalog.
const cacheSize = 512

func Root() star.Command {
	return root
}

var root = star.NewDir(star.Metadata{
	Short: "compile and evaluate ranking expressions",
}, map[star.Symbol]star.Command{
	"eval":   eval,
	"disasm": disasm,

	"put":    put,
	"get":    get,
	"list":   list,
	"delete": deleteCmd,
	"call":   call,

	"serve": serve,
})

var DBParam = star.Param[*sqlx.DB]{
	Name:    "db",
	Default: star.Ptr(":memory:"),
	Parse: func(x string) (*sqlx.DB, error) {
		db, err := exprdb.OpenDB(x)
		if err != nil {
			return nil, err
		}
		if err := exprdb.SetupDB(context.Background(), db); err != nil {
			return nil, err
		}
		return db, nil
	},
}

var ListenerParam = star.Param[net.Listener]{
	Name:    "l",
	Default: star.Ptr("127.0.0.1:8040"),
	Parse: func(x string) (net.Listener, error) {
		return net.Listen("tcp", x)
	},
}

func newCatalog(c star.Context) (*exprdb.Catalog, error) {
	return exprdb.New(DBParam.Load(c), cacheSize)
}
