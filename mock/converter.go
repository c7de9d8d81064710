package mock

import "github.com/fwojciec/pagecrawl"

var _ pagecrawl.Converter = (*Converter)(nil)

// Converter is a mock implementation of pagecrawl.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
