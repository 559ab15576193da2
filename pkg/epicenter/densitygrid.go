package epicenter

import (
	"math"
	"sort"

	"github.com/aryo-w/streetflow/pkg"
	"github.com/aryo-w/streetflow/pkg/datastructure"
	"github.com/aryo-w/streetflow/pkg/geo"
	"github.com/aryo-w/streetflow/pkg/lanes"
	"github.com/aryo-w/streetflow/pkg/util"
	"go.uber.org/zap"
)

type gridCell struct {
	row, col       int
	building, road float64
	combined       float64
}

// SuggestFromDensity overlays the frame with a square grid, scores each
// cell by building mass and road capacity, and returns up to 2 spread
// out cell centers as suggested epicenters. Used to propose a default
// before a simulation runs; deterministic for identical input.
func SuggestFromDensity(log *zap.Logger, roads []datastructure.Road,
	buildings []datastructure.Building, frame datastructure.BoundingBox) []Epicenter {

	widthM, heightM := frame.WidthM(), frame.HeightM()
	if widthM <= 0 || heightM <= 0 {
		return nil
	}

	cellM := util.ClampFloat(math.Min(widthM, heightM)/6,
		pkg.DENSITY_CELL_MIN_M, pkg.DENSITY_CELL_MAX_M)
	cols := util.ClampInt(int(math.Round(widthM/cellM)),
		pkg.DENSITY_GRID_MIN_CELLS, pkg.DENSITY_GRID_MAX_CELLS)
	rows := util.ClampInt(int(math.Round(heightM/cellM)),
		pkg.DENSITY_GRID_MIN_CELLS, pkg.DENSITY_GRID_MAX_CELLS)

	cells := make([]gridCell, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cells[r*cols+c] = gridCell{row: r, col: c}
		}
	}
	cellAt := func(lat, lon float64) *gridCell {
		if !frame.Contains(lat, lon) {
			return nil
		}
		r := int(float64(rows) * (lat - frame.MinLat) / (frame.MaxLat - frame.MinLat))
		c := int(float64(cols) * (lon - frame.MinLon) / (frame.MaxLon - frame.MinLon))
		r = util.ClampInt(r, 0, rows-1)
		c = util.ClampInt(c, 0, cols-1)
		return &cells[r*cols+c]
	}

	haveBuildings := false
	for i := range buildings {
		b := &buildings[i]
		lat, lon, ok := b.CentroidCoord()
		if !ok {
			continue
		}
		cell := cellAt(lat, lon)
		if cell == nil {
			continue
		}
		area := b.FootprintAreaSqM()
		if area == 0 {
			area = 80 // point building, assume a small footprint
		}
		heightEst := util.ClampFloat(area/400.0, 1, 6)
		cell.building += area * heightEst
		haveBuildings = true
	}

	haveRoads := false
	for _, road := range roads {
		resolved := lanes.Resolve(road.Lanes, road.Class, road.Oneway)
		classWeight := pkg.ClassDemandWeight(road.Class)
		for i := 0; i+1 < len(road.Points); i++ {
			p1, p2 := road.Points[i], road.Points[i+1]
			midLat, midLon := (p1.Lat+p2.Lat)/2, (p1.Lon+p2.Lon)/2
			cell := cellAt(midLat, midLon)
			if cell == nil {
				continue
			}
			lengthM := geo.HaversineDistanceM(p1.Lat, p1.Lon, p2.Lat, p2.Lon)
			cell.road += lengthM * float64(resolved.Total) * classWeight
			haveRoads = true
		}
	}

	if !haveBuildings && !haveRoads {
		return nil
	}

	normalize := func(get func(*gridCell) float64, set func(*gridCell, float64)) {
		max := 0.0
		for i := range cells {
			if v := get(&cells[i]); v > max {
				max = v
			}
		}
		if max == 0 {
			return
		}
		for i := range cells {
			set(&cells[i], get(&cells[i])/max)
		}
	}
	normalize(func(c *gridCell) float64 { return c.building }, func(c *gridCell, v float64) { c.building = v })
	normalize(func(c *gridCell) float64 { return c.road }, func(c *gridCell, v float64) { c.road = v })

	for i := range cells {
		cell := &cells[i]
		switch {
		case haveBuildings && haveRoads:
			cell.combined = pkg.DENSITY_BUILDING_SHARE*cell.building + pkg.DENSITY_ROAD_SHARE*cell.road
		case haveBuildings:
			cell.combined = cell.building
		default:
			cell.combined = cell.road
		}
	}

	// rank descending, ties broken by row then column for determinism.
	ranked := make([]*gridCell, 0, len(cells))
	for i := range cells {
		if cells[i].combined > 0 {
			ranked = append(ranked, &cells[i])
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].combined != ranked[j].combined {
			return ranked[i].combined > ranked[j].combined
		}
		if ranked[i].row != ranked[j].row {
			return ranked[i].row < ranked[j].row
		}
		return ranked[i].col < ranked[j].col
	})

	selected := make([]*gridCell, 0, pkg.MAX_DENSITY_EPICENTERS)
	for _, cell := range ranked {
		if len(selected) == pkg.MAX_DENSITY_EPICENTERS {
			break
		}
		farEnough := true
		for _, prev := range selected {
			dr := float64(cell.row - prev.row)
			dc := float64(cell.col - prev.col)
			if math.Sqrt(dr*dr+dc*dc) < pkg.DENSITY_MIN_CELL_SEPARATION {
				farEnough = false
				break
			}
		}
		if farEnough {
			selected = append(selected, cell)
		}
	}
	if len(selected) == 0 {
		return nil
	}

	totalScore := 0.0
	for _, cell := range selected {
		totalScore += cell.combined
	}

	epicenters := make([]Epicenter, 0, len(selected))
	for _, cell := range selected {
		centerLat := frame.MinLat + (float64(cell.row)+0.5)*(frame.MaxLat-frame.MinLat)/float64(rows)
		centerLon := frame.MinLon + (float64(cell.col)+0.5)*(frame.MaxLon-frame.MinLon)/float64(cols)
		source := "roads"
		if pkg.DENSITY_BUILDING_SHARE*cell.building >= pkg.DENSITY_ROAD_SHARE*cell.road && haveBuildings {
			source = "buildings"
		}
		epicenters = append(epicenters, Epicenter{
			Lat:    centerLat,
			Lon:    centerLon,
			Weight: cell.combined / totalScore,
			Source: source,
		})
	}

	log.Info("density-grid epicenters suggested",
		zap.Int("rows", rows), zap.Int("cols", cols),
		zap.Int("epicenters", len(epicenters)))

	return epicenters
}
