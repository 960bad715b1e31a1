// Demo program: creates a page through a guard, writes to it, and reads
// it back through a read guard. The page stays resident in the 4-frame
// pool, so the read back is a buffer pool hit, not a disk read.
// Run: go run ./cmd/demo
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"pagecache/bufferpool"
	"pagecache/diskmanager"
	"pagecache/logmanager"
	"pagecache/pageguard"
	"pagecache/types"
)

const dbDir = "databases/demo"

func main() {
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}

	disk, err := diskmanager.NewFileDiskManager(filepath.Join(dbDir, "pages.db"))
	if err != nil {
		log.Fatalf("open disk manager: %v", err)
	}
	defer disk.Close()

	cached, err := diskmanager.NewCachedDiskManager(disk, 64)
	if err != nil {
		log.Fatalf("open cached disk manager: %v", err)
	}
	defer cached.Close()

	bp := bufferpool.New(4, cached, 2, logmanager.New())
	defer bp.Close()

	var p1 types.PageID
	guard := pageguard.NewPageGuarded(bp, &p1)
	copy(guard.Data(), []byte("hello from the demo page"))
	guard.SetDirty(true)
	guard.Drop()
	fmt.Printf("wrote page %d\n", p1)

	read := pageguard.FetchPageRead(bp, p1)
	fmt.Printf("read back: %q\n", read.Data()[:24])
	read.Drop()
}
