package main

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
	"slices"
	"time"

	"github.com/rawbytedev/buffo"
	"github.com/rawbytedev/buffo/pkg/inspect"
	"go.uber.org/zap"
)

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	inspect.SetLogger(log)

	go func() {
		log.Info("pprof server stopped", zap.Error(http.ListenAndServe("localhost:6060", nil)))
	}()
	f, err := os.Create("mem.prof")
	if err != nil {
		log.Fatal("create profile", zap.Error(err))
	}
	defer f.Close()
	runtime.MemProfileRate = 1

	strs := make([]string, 1024)
	for i := range strs {
		strs[i] = fmt.Sprintf("azerty hello world random %d", i)
	}
	var enc buffo.Encoder
	start := time.Now()
	for i := 0; i < 10000; i++ {
		b, err := enc.Encode(slices.Values(strs))
		if err != nil {
			log.Fatal("encode", zap.Error(err))
		}
		r := buffo.Wrap(b.Bytes(), buffo.Options{UnsafeStrings: true})
		for j := uint32(0); j < r.Count(); j += 97 {
			_, _ = r.NthStr(j)
		}
		if i == 0 {
			if err := inspect.Validate(b.Bytes()); err != nil {
				log.Fatal("validate", zap.Error(err))
			}
			log.Info("container built", zap.Uint32("count", b.Count()), zap.Int("size", b.Size()))
		}
	}
	log.Info("done", zap.Duration("elapsed", time.Since(start)))
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Error("write heap profile", zap.Error(err))
	}
	time.Sleep(5 * time.Minute)
}
