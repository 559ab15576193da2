package pkg

// enum of turn_type
type TurnType uint8

const (
	LEFT_TURN TurnType = iota
	RIGHT_TURN
	STRAIGHT_ON
	NONE
)

const (
	INF_WEIGHT float64 = 1e15

	// delay added to every edge touching a signalized node, per signal.
	TRAFFIC_LIGHT_DELAY_SECOND    = 10.0
	TRAFFIC_LIGHT_SNAP_RADIUS_M   = 35.0
	KPATH_EDGE_PENALTY_FACTOR     = 0.35
	CENTRAL_TRIP_SHARE            = 0.6
	MIN_TRIPS_PER_PRESET          = 50
	MAX_TRIPS_PER_PRESET          = 12000
	STRAIGHT_DELTA_BEARING_DEGREE = 30.0
	BOUNDARY_NODE_BUFFER_M        = 220.0
	MAX_BOUNDARY_EPICENTERS       = 3
	MAX_DENSITY_EPICENTERS        = 2
	DENSITY_CELL_MIN_M            = 200.0
	DENSITY_CELL_MAX_M            = 900.0
	DENSITY_GRID_MIN_CELLS        = 4
	DENSITY_GRID_MAX_CELLS        = 18
	DENSITY_BUILDING_SHARE        = 0.65
	DENSITY_ROAD_SHARE            = 0.35
	DENSITY_MIN_CELL_SEPARATION   = 1.5
	SYNTHETIC_PARCEL_MIN          = 500
	SYNTHETIC_PARCEL_MAX          = 1800
	DEFAULT_K_ROUTES              = 2

	DEFAULT_SEED int64 = 1377331
)

const (
	DEBUG = false
)

type RoadClass uint8

// enum of osm highway classes relevant for demand routing:
// https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Telenav
const (
	MOTORWAY RoadClass = iota
	TRUNK
	PRIMARY
	SECONDARY
	TERTIARY
	RESIDENTIAL
	SERVICE
	UNCLASSIFIED
	MOTORWAY_LINK
	TRUNK_LINK
	PRIMARY_LINK
	SECONDARY_LINK
	TERTIARY_LINK
	LIVING_STREET
	TRACK
	FOOTWAY
	PATH
	UNKNOWN_ROAD
)

func GetRoadClass(roadType string) RoadClass {
	switch roadType {
	case "motorway":
		return MOTORWAY
	case "trunk":
		return TRUNK
	case "primary":
		return PRIMARY
	case "secondary":
		return SECONDARY
	case "tertiary":
		return TERTIARY
	case "residential":
		return RESIDENTIAL
	case "service":
		return SERVICE
	case "unclassified":
		return UNCLASSIFIED
	case "motorway_link":
		return MOTORWAY_LINK
	case "trunk_link":
		return TRUNK_LINK
	case "primary_link":
		return PRIMARY_LINK
	case "secondary_link":
		return SECONDARY_LINK
	case "tertiary_link":
		return TERTIARY_LINK
	case "living_street":
		return LIVING_STREET
	case "track":
		return TRACK
	case "footway":
		return FOOTWAY
	case "path":
		return PATH
	default:
		return UNKNOWN_ROAD
	}
}

func (rc RoadClass) String() string {
	switch rc {
	case MOTORWAY:
		return "motorway"
	case TRUNK:
		return "trunk"
	case PRIMARY:
		return "primary"
	case SECONDARY:
		return "secondary"
	case TERTIARY:
		return "tertiary"
	case RESIDENTIAL:
		return "residential"
	case SERVICE:
		return "service"
	case UNCLASSIFIED:
		return "unclassified"
	case MOTORWAY_LINK:
		return "motorway_link"
	case TRUNK_LINK:
		return "trunk_link"
	case PRIMARY_LINK:
		return "primary_link"
	case SECONDARY_LINK:
		return "secondary_link"
	case TERTIARY_LINK:
		return "tertiary_link"
	case LIVING_STREET:
		return "living_street"
	case TRACK:
		return "track"
	case FOOTWAY:
		return "footway"
	case PATH:
		return "path"
	default:
		return "unknown"
	}
}

// free-flow speed per class in km/h.
var classSpeedKmh = map[RoadClass]float64{
	MOTORWAY:       105,
	TRUNK:          90,
	PRIMARY:        65,
	SECONDARY:      55,
	TERTIARY:       45,
	RESIDENTIAL:    30,
	SERVICE:        20,
	UNCLASSIFIED:   40,
	MOTORWAY_LINK:  65,
	TRUNK_LINK:     55,
	PRIMARY_LINK:   45,
	SECONDARY_LINK: 40,
	TERTIARY_LINK:  35,
	LIVING_STREET:  15,
	TRACK:          15,
	FOOTWAY:        6,
	PATH:           6,
}

// ClassSpeedMS returns the free-flow speed of a road class in m/s.
func ClassSpeedMS(rc RoadClass) float64 {
	kmh, ok := classSpeedKmh[rc]
	if !ok {
		kmh = 35
	}
	return kmh / 3.6
}

// heuristic lane count used when a road carries no lane tags.
var classLanes = map[RoadClass]int{
	MOTORWAY:       4,
	TRUNK:          3,
	PRIMARY:        3,
	SECONDARY:      2,
	TERTIARY:       2,
	RESIDENTIAL:    2,
	SERVICE:        1,
	UNCLASSIFIED:   2,
	MOTORWAY_LINK:  2,
	TRUNK_LINK:     1,
	PRIMARY_LINK:   1,
	SECONDARY_LINK: 1,
	TERTIARY_LINK:  1,
	LIVING_STREET:  1,
	TRACK:          1,
	FOOTWAY:        1,
	PATH:           1,
}

func ClassLanes(rc RoadClass) int {
	if lanes, ok := classLanes[rc]; ok {
		return lanes
	}
	return 2
}

// how strongly a class attracts synthetic trips.
var classDemandWeight = map[RoadClass]float64{
	MOTORWAY:       1.6,
	TRUNK:          1.45,
	PRIMARY:        1.3,
	SECONDARY:      1.15,
	TERTIARY:       1.0,
	RESIDENTIAL:    0.85,
	SERVICE:        0.6,
	UNCLASSIFIED:   0.8,
	MOTORWAY_LINK:  1.2,
	TRUNK_LINK:     1.1,
	PRIMARY_LINK:   1.0,
	SECONDARY_LINK: 0.9,
	TERTIARY_LINK:  0.85,
	LIVING_STREET:  0.55,
	TRACK:          0.5,
	FOOTWAY:        0.45,
	PATH:           0.45,
}

func ClassDemandWeight(rc RoadClass) float64 {
	if w, ok := classDemandWeight[rc]; ok {
		return w
	}
	return 0.75
}

// IsMajorRoadClass reports whether a class counts for boundary-crossing
// epicenter inference (motorway..secondary, link variants included).
func IsMajorRoadClass(rc RoadClass) bool {
	switch rc {
	case MOTORWAY, TRUNK, PRIMARY, SECONDARY,
		MOTORWAY_LINK, TRUNK_LINK, PRIMARY_LINK, SECONDARY_LINK:
		return true
	default:
		return false
	}
}

type Preset string

const (
	PRESET_AM      Preset = "am"
	PRESET_PM      Preset = "pm"
	PRESET_NEUTRAL Preset = "neutral"
)

func DefaultPresets() []Preset {
	return []Preset{PRESET_AM, PRESET_PM, PRESET_NEUTRAL}
}
