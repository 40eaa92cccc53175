package biz

import (
	"github.com/vearne/reasm/config"
	"github.com/vearne/reasm/filter"
)

func NewFilterChain(settings *config.AppSettings) (*filter.FilterChain, error) {
	c := filter.NewFilterChain()

	if settings.IncludeSeqMin > 0 || settings.IncludeSeqMax > 0 {
		f := filter.NewSeqRangeIncludeFilter(settings.IncludeSeqMin, settings.IncludeSeqMax)
		c.AddIncludeFilter(f)
	}
	if settings.MaxPayloadSize > 0 {
		c.AddExcludeFilters(filter.NewPayloadSizeExcludeFilter(settings.MaxPayloadSize))
	}
	return c, nil
}
