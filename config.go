package dartex

// Config holds the extraction settings shared by every filing of a run.
type Config struct {
	// Items lists the requested item slots in output order.
	Items []Item

	// RemoveTables drops table elements before text extraction.
	RemoveTables bool

	// SkipExtracted skips filings whose record already exists.
	SkipExtracted bool

	// Workers bounds the number of filings processed concurrently.
	// Zero means one.
	Workers int
}

// DefaultConfig returns a configuration requesting all items with a single
// worker.
func DefaultConfig() Config {
	return Config{
		Items:   AllItems(),
		Workers: 1,
	}
}

// Validate returns an error if the configuration contains invalid fields.
func (c *Config) Validate() error {
	if len(c.Items) == 0 {
		return Errorf(EINVALID, "at least one item required")
	}
	for _, item := range c.Items {
		if !item.Valid() {
			return Errorf(EINVALID, "item %d out of range 1-%d", int(item), MaxItem)
		}
	}
	if c.Workers < 0 {
		return Errorf(EINVALID, "workers must not be negative")
	}
	return nil
}

// WorkerCount returns the effective pool size.
func (c *Config) WorkerCount() int {
	if c.Workers <= 0 {
		return 1
	}
	return c.Workers
}
