package state

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/altdrag/altdrag/log2"
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
)

type Global struct {
	Alive  *alive.Alive
	Config *Config
	Log    *log2.Log
}

const ContextKey = "run/state-global"

func GetGlobal(ctx context.Context) *Global {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if g, ok := v.(*Global); ok {
		return g
	}
	panic(fmt.Sprintf("context['%s'] expected type *Global actual=%#v", ContextKey, v))
}

func NewContext(log *log2.Log, config *Config) (context.Context, *Global) {
	if log == nil {
		panic("code error NewContext() log=nil")
	}
	if config == nil {
		config = DefaultConfig()
	}

	g := &Global{
		Alive:  alive.NewAlive(),
		Config: config,
		Log:    log,
	}
	ctx := context.Background()
	ctx = context.WithValue(ctx, log2.ContextKey, log)
	ctx = context.WithValue(ctx, ContextKey, g)

	return ctx, g
}

// Error logs err annotated with optional format, args.
// Stack trace is included only with log.debug.
func (g *Global) Error(err error, args ...interface{}) {
	if err == nil {
		return
	}
	if len(args) != 0 {
		err = errors.Annotatef(err, args[0].(string), args[1:]...)
	}
	if g.Config.Log.Debug {
		g.Log.Error(errors.ErrorStack(err))
		return
	}
	g.Log.Error(err)
}

// StopOnSignal stops Alive on first of sigs. Second signal exits immediately.
func (g *Global) StopOnSignal(sigs ...os.Signal) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			g.Log.Infof("signal=%v stopping", sig)
			g.Alive.Stop()
		case <-g.Alive.StopChan():
			return
		}
		select {
		case sig := <-ch:
			g.Log.Fatalf("signal=%v while stopping", sig)
		case <-g.Alive.WaitChan():
		}
	}()
}
