package dataset

import "github.com/arijit3111w/estateai/internal/domain/model"

// Summary describes a record set at a glance.
type Summary struct {
	Count             int         `json:"count"`
	AveragePrice      float64     `json:"average_price"`
	MinPrice          float64     `json:"min_price"`
	MaxPrice          float64     `json:"max_price"`
	AverageLivingArea float64     `json:"average_living_area"`
	ByBedrooms        map[int]int `json:"by_bedrooms"`
}

// Summarize computes price and size statistics over records.
func Summarize(records []model.PropertyRecord) Summary {
	s := Summary{ByBedrooms: make(map[int]int)}
	if len(records) == 0 {
		return s
	}

	s.Count = len(records)
	s.MinPrice = records[0].Price
	s.MaxPrice = records[0].Price
	var totalPrice, totalArea float64
	for _, r := range records {
		totalPrice += r.Price
		totalArea += r.LivingArea
		if r.Price < s.MinPrice {
			s.MinPrice = r.Price
		}
		if r.Price > s.MaxPrice {
			s.MaxPrice = r.Price
		}
		s.ByBedrooms[r.Bedrooms]++
	}
	s.AveragePrice = totalPrice / float64(s.Count)
	s.AverageLivingArea = totalArea / float64(s.Count)
	return s
}
