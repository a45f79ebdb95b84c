package model

// ColorClass is the price tier of a grid cell.
type ColorClass string

const (
	ClassAffordable ColorClass = "affordable"
	ClassMidRange   ColorClass = "mid-range"
	ClassExpensive  ColorClass = "expensive"
	ClassLuxury     ColorClass = "luxury"
)

// LatLng is a coordinate pair in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is a cell rectangle given by its south-west and north-east corners.
type Bounds struct {
	SouthWest LatLng `json:"south_west"`
	NorthEast LatLng `json:"north_east"`
}

// GridCell holds the aggregate of every record whose quantized
// coordinates fall into the same cell.
type GridCell struct {
	CellID        string     `json:"cell_id"`
	Bounds        Bounds     `json:"bounds"`
	PropertyCount int        `json:"property_count"`
	AveragePrice  float64    `json:"average_price"`
	MinPrice      float64    `json:"min_price"`
	MaxPrice      float64    `json:"max_price"`
	ColorClass    ColorClass `json:"color_class"`
	Color         string     `json:"color"`
	Opacity       float64    `json:"opacity"`
}
