package config

// MemFlash is an in-memory settings page for the host build and tests. A
// fresh instance reads as erased flash (all 0xff), which fails the checksum
// and leaves the defaults in place.
type MemFlash struct {
	page [64]byte
}

func NewMemFlash() *MemFlash {
	f := &MemFlash{}
	for i := range f.page {
		f.page[i] = 0xff
	}
	return f
}

func (f *MemFlash) Read(p []byte) error {
	copy(p, f.page[:])
	return nil
}

func (f *MemFlash) Write(p []byte) error {
	copy(f.page[:], p)
	return nil
}
