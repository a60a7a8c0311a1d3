package repository

import (
	"time"

	"github.com/Mouly-K/ffe/internal/model"
)

func localPriceTime(p *model.LocalPrice) *time.Time {
	if p == nil {
		return nil
	}
	t := p.Timestamp
	return &t
}
