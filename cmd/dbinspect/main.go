// Package main dumps a summary of the catalog database for debugging.
// Opens the Badger store read-only, so it is safe to run against a live
// server's data directory.
//
// Usage:
//
//	DATA_PATH=~/movelog/data go run ./cmd/dbinspect
package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/movelogapp/movelog-server/internal/domain"
)

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/movelog/data")
	}

	opts := badger.DefaultOptions(filepath.Join(dataPath, "db")).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	movementCount := 0
	movementsWithVideo := 0
	tagUsage := make(map[string]int)

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(iterOpts("movement:"))
		defer it.Close()

		for it.Seek([]byte("movement:")); it.ValidForPrefix([]byte("movement:")); it.Next() {
			item := it.Item()
			if isIndexKey(string(item.Key())) {
				continue
			}
			err := item.Value(func(val []byte) error {
				var m domain.Movement
				if err := json.Unmarshal(val, &m); err != nil {
					return err
				}
				movementCount++
				if m.Video.Object != "" {
					movementsWithVideo++
				}
				for _, tag := range m.Tags {
					tagUsage[tag]++
				}
				if movementCount <= 5 {
					fmt.Printf("Movement: %s\n", m.Name)
					fmt.Printf("  ID: %s\n", m.ID)
					if len(m.AltNames) > 0 {
						fmt.Printf("  Alt names: %s\n", strings.Join(m.AltNames, ", "))
					}
					if len(m.Tags) > 0 {
						fmt.Printf("  Tags: %s\n", strings.Join(m.Tags, ", "))
					}
					fmt.Printf("  Video: %s (%d bytes)\n", m.Video.Object, m.Video.Size)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to scan movements: %v", err)
	}

	fmt.Println()
	fmt.Printf("Movements: %d (%d with video)\n", movementCount, movementsWithVideo)

	tagCount, err := countPrefix(db, "tag:")
	if err != nil {
		log.Fatalf("Failed to count tags: %v", err)
	}
	fmt.Printf("Tags: %d\n", tagCount)
	for name, uses := range tagUsage {
		fmt.Printf("  %s: used by %d movements\n", name, uses)
	}

	for _, p := range []struct{ label, prefix string }{
		{"Users", "user:"},
		{"Sessions", "session:"},
		{"Invites", "invite:"},
		{"Pending cleanup tasks", "cleanup:"},
	} {
		n, err := countPrefix(db, p.prefix)
		if err != nil {
			log.Fatalf("Failed to count %s: %v", p.label, err)
		}
		fmt.Printf("%s: %d\n", p.label, n)
	}
}

func iterOpts(prefix string) badger.IteratorOptions {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	return opts
}

// isIndexKey reports whether the key belongs to a secondary index rather
// than a stored record.
func isIndexKey(key string) bool {
	rest := key[strings.Index(key, ":")+1:]
	return strings.HasPrefix(rest, "idx:")
}

func countPrefix(db *badger.DB, prefix string) (int, error) {
	count := 0
	err := db.View(func(txn *badger.Txn) error {
		opts := iterOpts(prefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			if isIndexKey(string(it.Item().Key())) {
				continue
			}
			count++
		}
		return nil
	})
	return count, err
}
