// Command cacheinspect prints a summary of the badger lookup cache.
// It opens the database read-only and is safe to run beside the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/vibereader/vibereader-server/internal/store"
)

// namespaces are the typed cache prefixes written by the server.
var namespaces = []string{"book:", "catalog:"}

// maxListed caps the entries printed per namespace.
const maxListed = 5

func main() {
	path := flag.String("path", os.Getenv("CACHE_PATH"), "Badger cache directory (defaults to CACHE_PATH)")
	flag.Parse()

	if *path == "" {
		log.Fatal("cache path required: pass -path or set CACHE_PATH")
	}

	s, err := store.OpenReadOnly(*path, nil)
	if err != nil {
		log.Fatalf("Failed to open cache: %v", err)
	}
	defer s.Close()

	if err := inspect(context.Background(), os.Stdout, s, time.Now()); err != nil {
		log.Fatalf("Error iterating cache: %v", err)
	}
}

type scanner interface {
	Scan(ctx context.Context, prefix string, fn func(store.Entry) error) error
	Len(ctx context.Context) (int, error)
}

type summary struct {
	live    int
	expired int
	bytes   int
}

func inspect(ctx context.Context, w io.Writer, s scanner, now time.Time) error {
	fmt.Fprintln(w, "=== Cache Inspection ===")
	fmt.Fprintln(w)

	var total summary
	for _, ns := range namespaces {
		var sum summary
		listed := 0

		err := s.Scan(ctx, ns, func(e store.Entry) error {
			sum.bytes += e.Size
			if e.Expired(now) {
				sum.expired++
				return nil
			}
			sum.live++
			if listed < maxListed {
				listed++
				fmt.Fprintf(w, "  %s (%d bytes, expires in %s)\n", e.Key, e.Size, e.ExpiresAt.Sub(now).Round(time.Second))
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("scan %s: %w", ns, err)
		}

		if sum.live > listed {
			fmt.Fprintf(w, "  ... and %d more\n", sum.live-listed)
		}
		fmt.Fprintf(w, "%s %d live, %d expired, %d bytes\n\n", ns, sum.live, sum.expired, sum.bytes)

		total.live += sum.live
		total.expired += sum.expired
		total.bytes += sum.bytes
	}

	stored, err := s.Len(ctx)
	if err != nil {
		return fmt.Errorf("count keys: %w", err)
	}

	fmt.Fprintln(w, "=== Summary ===")
	fmt.Fprintf(w, "Stored keys (all namespaces): %d\n", stored)
	fmt.Fprintf(w, "Live entries: %d\n", total.live)
	fmt.Fprintf(w, "Expired entries awaiting GC: %d\n", total.expired)
	fmt.Fprintf(w, "Payload bytes: %d\n", total.bytes)
	return nil
}
