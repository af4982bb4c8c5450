// Command gnet demonstrates wiring gnet.WithLogger to a ringlog
// compat.GnetAdapter, so gnet's internal event-loop diagnostics flow
// through the same ring pipeline as application logs.
package main

import (
	"time"

	"github.com/lixenwraith/ringlog"
	"github.com/lixenwraith/ringlog/compat"
	"github.com/panjf2000/gnet/v2"
)

type echoServer struct {
	gnet.BuiltinEventEngine
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	logger := ringlog.NewLogger()
	cfg := ringlog.DefaultConfig()
	cfg.LogDir = "/var/log/gnet"
	cfg.MinLevel = ringlog.LevelDebug
	if err := logger.Initialize(cfg); err != nil {
		panic(err)
	}
	defer logger.Shutdown(5 * time.Second)

	adapter := compat.NewGnetAdapter(logger)
	defer adapter.Close()

	err := gnet.Run(
		&echoServer{},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(adapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		panic(err)
	}
}
