// Command inspect dumps the canvas store as a readable table. It opens the
// database read-only so it can run next to a live canvasd process.
package main

import (
	"canvas-lab/domain"
	"canvas-lab/repositories"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "/tmp/canvas-lab/badger", "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (msg:, act:, room:, user:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	color.Style{color.FgCyan, color.OpBold}.Printf("Scanning %s for prefix %q\n\n", *dbPath, *prefix)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "Room", "Author", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	count := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(val []byte) error {
				table.Append(describe(key, val))
				count++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
	color.Style{color.FgGreen}.Printf("\n%d entries\n", count)
}

// describe decodes one entry according to its key family. Malformed values
// are reported inline instead of aborting the scan.
func describe(key string, val []byte) []string {
	kind, ts, room, author, detail := "RAW", "--:--:--", "-", "-", fmt.Sprintf("%d bytes", len(val))

	switch {
	case strings.HasPrefix(key, "msg:"):
		kind = "CHAT"
		var m repositories.DiskMessage
		if err := json.Unmarshal(val, &m); err != nil {
			detail = "unmarshal failed: " + err.Error()
			break
		}
		ts = m.Message.At().Format("15:04:05")
		room = m.Room
		author = m.Message.UserName
		detail = m.Message.Message
		if m.Message.Lang != "" {
			detail += " [" + m.Message.Lang + "]"
		}

	case strings.HasPrefix(key, "act:"):
		kind = "DRAW"
		var a domain.DrawAction
		if err := json.Unmarshal(val, &a); err != nil {
			detail = "unmarshal failed: " + err.Error()
			break
		}
		parts := strings.Split(key, ":")
		if len(parts) == 3 {
			room = parts[1]
		}
		author = a.UserID
		detail = fmt.Sprintf("%s %s w=%.0f points=%d", a.Tool, a.Color, a.StrokeWidth, len(a.Points))

	case strings.HasPrefix(key, "room:"):
		kind = "ROOM"
		var r domain.Room
		if err := json.Unmarshal(val, &r); err != nil {
			detail = "unmarshal failed: " + err.Error()
			break
		}
		room = r.ID
		author = r.CreatorID
		locked := ""
		if r.Password != "" {
			locked = " (password)"
		}
		detail = fmt.Sprintf("%s%s members=%d invited=%d", r.Name, locked, len(r.UserIDs), len(r.InvitedUserIDs))

	case strings.HasPrefix(key, "user:"):
		kind = "USER"
		var u repositories.StoredUser
		if err := json.Unmarshal(val, &u); err != nil {
			detail = "unmarshal failed: " + err.Error()
			break
		}
		ts = u.CreatedAt.Format("15:04:05")
		author = u.User.ID
		detail = fmt.Sprintf("%s %s %q", u.User.Name, u.User.Color, u.User.Bio)
	}

	return []string{truncate(key, 48), kind, ts, room, author, truncate(detail, 72)}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// openDB bypasses the lock guard so inspection works while the engine is
// running. Read-only mode guarantees the scan cannot corrupt anything.
func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return db, nil
}
