// Command fasthttp demonstrates wiring a fasthttp.Server's internal
// Logger field to a ringlog compat.FastHTTPAdapter, so fasthttp's own
// connection-lifecycle log lines flow through the same ring pipeline as
// application logs.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/ringlog"
	"github.com/lixenwraith/ringlog/compat"
	"github.com/valyala/fasthttp"
)

func main() {
	logger := ringlog.NewLogger()
	cfg := ringlog.DefaultConfig()
	cfg.LogDir = "/var/log/fasthttp"
	if err := logger.Initialize(cfg); err != nil {
		panic(err)
	}
	defer logger.Shutdown(5 * time.Second)

	adapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithDefaultLevel(ringlog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)
	defer adapter.Close()

	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  adapter,

		Name:              "ringlog-example",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	fmt.Println("listening on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "hello, world! path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) ringlog.Level {
	switch {
	case strings.Contains(msg, "connection cannot be served"):
		return ringlog.LevelWarning
	case strings.Contains(msg, "error when serving connection"):
		return ringlog.LevelError
	default:
		return compat.DetectLogLevel(msg)
	}
}
