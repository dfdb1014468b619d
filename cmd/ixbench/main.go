// Command ixbench builds a secidx index and a pebble-backed lsm index over
// the same synthetic keyspace and reports insert/lookup timings for each, so
// the paged B+-tree in secidx can be judged against a real LSM engine rather
// than in isolation.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/dbcore/bptreeidx/bufpool"
	"github.com/dbcore/bptreeidx/dbms/index"
	"github.com/dbcore/bptreeidx/dbms/index/lsm"
	"github.com/dbcore/bptreeidx/rid"
	"github.com/dbcore/bptreeidx/secidx"
)

func main() {
	n := flag.Int("n", 100000, "number of keys to insert")
	cache := flag.Int("cache", 256, "pager cache size in pages, for secidx")
	dir := flag.String("dir", "", "working directory for backend files (defaults to a temp dir)")
	plotPath := flag.String("plot", "", "if set, write a secidx occupancy chart to this PNG path")
	seed := flag.Int64("seed", 1, "PRNG seed for the probe keyspace")
	flag.Parse()

	workDir := *dir
	if workDir == "" {
		var err error
		workDir, err = os.MkdirTemp("", "ixbench-")
		if err != nil {
			fmt.Fprintln(os.Stderr, "ixbench:", err)
			os.Exit(1)
		}
		defer os.RemoveAll(workDir)
	}

	keys := rand.New(rand.NewSource(*seed)).Perm(*n)

	if err := runSecidx(workDir, *cache, keys, *plotPath); err != nil {
		fmt.Fprintln(os.Stderr, "ixbench: secidx:", err)
		os.Exit(1)
	}
	if err := runGenericIndex("lsm", func() (index.Index, error) {
		return lsm.Open(filepath.Join(workDir, "lsm"))
	}, keys); err != nil {
		fmt.Fprintln(os.Stderr, "ixbench: lsm:", err)
		os.Exit(1)
	}
}

func runSecidx(workDir string, cache int, keys []int, plotPath string) error {
	pool := bufpool.NewAdapter()
	if err := pool.Open(0, filepath.Join(workDir, "secidx.bin"), cache); err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer pool.Close()

	idx, err := secidx.Create(pool, 0, secidx.Config{
		AttrType:   secidx.AttrInt,
		AttrLength: 4,
		MaxKeyNum:  64,
	})
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	insertStart := time.Now()
	for _, k := range keys {
		if _, err := idx.Insert(secidx.EncodeInt(int32(k)), rid.RID{Page: int32(k), Slot: 0}); err != nil {
			return fmt.Errorf("insert %d: %w", k, err)
		}
	}
	insertElapsed := time.Since(insertStart)

	lookupStart := time.Now()
	for _, k := range keys {
		if _, _, ok, err := idx.SearchLast(secidx.EncodeInt(int32(k))); err != nil {
			return fmt.Errorf("lookup %d: %w", k, err)
		} else if !ok {
			return fmt.Errorf("lookup %d: not found", k)
		}
	}
	lookupElapsed := time.Since(lookupStart)

	report("secidx", len(keys), insertElapsed, lookupElapsed)

	if plotPath != "" {
		if err := idx.Plot(plotPath); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
	}
	return nil
}

func runGenericIndex(name string, open func() (index.Index, error), keys []int) error {
	ix, err := open()
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer ix.Close()

	insertStart := time.Now()
	for _, k := range keys {
		if err := ix.Insert(int64(k), []byte{byte(k)}); err != nil {
			return fmt.Errorf("insert %d: %w", k, err)
		}
	}
	insertElapsed := time.Since(insertStart)

	lookupStart := time.Now()
	for _, k := range keys {
		if _, err := ix.Get(int64(k)); err != nil {
			return fmt.Errorf("lookup %d: %w", k, err)
		}
	}
	lookupElapsed := time.Since(lookupStart)

	report(name, len(keys), insertElapsed, lookupElapsed)
	return nil
}

func report(name string, n int, insert, lookup time.Duration) {
	fmt.Printf("%-8s n=%-8d insert=%-12s (%.0f/s)  lookup=%-12s (%.0f/s)\n",
		name, n, insert, float64(n)/insert.Seconds(), lookup, float64(n)/lookup.Seconds())
}
