// Package diskmanager provides the disk-side collaborator the buffer pool
// schedules I/O against. The buffer pool core treats DiskManager as an
// external interface; this package ships one concrete, file-backed
// implementation so the core can be built and tested standalone.
package diskmanager

import (
	"fmt"
	"os"
	"sync"

	"pagecache/types"
)

// DiskManager is the synchronous, blocking collaborator the disk scheduler
// calls into. Both operations block until the bytes have been transferred.
type DiskManager interface {
	ReadPage(pageID types.PageID, buf []byte) error
	WritePage(pageID types.PageID, buf []byte) error
}

// FileDiskManager stores every page in a single backing file, at offset
// pageID*PageSize. It is deliberately minimal: page-id allocation belongs
// to the buffer pool, so this type only reads and writes fixed-size pages
// at a fixed offset.
type FileDiskManager struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileDiskManager opens (creating if necessary) the backing file at path.
func NewFileDiskManager(path string) (*FileDiskManager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("open backing file %s: %w", path, err)
	}
	return &FileDiskManager{file: f}, nil
}

// ReadPage reads PageSize bytes at pageID's offset into buf. A read that
// runs past the end of the file (a page that was allocated but never
// flushed) is zero-padded rather than treated as an error.
func (dm *FileDiskManager) ReadPage(pageID types.PageID, buf []byte) error {
	if len(buf) != types.PageSize {
		return fmt.Errorf("read page %d: buffer size %d != page size %d", pageID, len(buf), types.PageSize)
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()

	offset := int64(pageID) * int64(types.PageSize)
	n, err := dm.file.ReadAt(buf, offset)
	if err != nil && n == 0 {
		stat, statErr := dm.file.Stat()
		if statErr == nil && offset >= stat.Size() {
			for i := range buf {
				buf[i] = 0
			}
			return nil
		}
		return fmt.Errorf("read page %d: %w", pageID, err)
	}
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
	return nil
}

// WritePage writes PageSize bytes from buf at pageID's offset.
func (dm *FileDiskManager) WritePage(pageID types.PageID, buf []byte) error {
	if len(buf) != types.PageSize {
		return fmt.Errorf("write page %d: buffer size %d != page size %d", pageID, len(buf), types.PageSize)
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()

	offset := int64(pageID) * int64(types.PageSize)
	if _, err := dm.file.WriteAt(buf, offset); err != nil {
		return fmt.Errorf("write page %d: %w", pageID, err)
	}
	return nil
}

// Close releases the backing file handle.
func (dm *FileDiskManager) Close() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.file.Close()
}
