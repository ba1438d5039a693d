package game

// Resource is one of the five tradeable resource kinds.
type Resource int

const (
	Brick Resource = iota
	Ore
	Wood
	Wool
	Wheat
)

// AllResources lists every resource kind in a fixed iteration order.
var AllResources = []Resource{Brick, Ore, Wood, Wool, Wheat}

func (r Resource) String() string {
	switch r {
	case Brick:
		return "brick"
	case Ore:
		return "ore"
	case Wood:
		return "wood"
	case Wool:
		return "wool"
	case Wheat:
		return "wheat"
	default:
		return "unknown"
	}
}

// Terrain is a hexagon's terrain kind. Every terrain except desert yields
// exactly one resource.
type Terrain int

const (
	NoTerrain Terrain = iota // unset until board setup runs
	Hills
	Mountains
	Forests
	Pastures
	Fields
	Desert
)

// Resource returns the resource a terrain produces. ok is false for desert
// and for hexagons whose terrain has not been assigned yet.
func (t Terrain) Resource() (Resource, bool) {
	switch t {
	case Hills:
		return Brick, true
	case Mountains:
		return Ore, true
	case Forests:
		return Wood, true
	case Pastures:
		return Wool, true
	case Fields:
		return Wheat, true
	default:
		return 0, false
	}
}

func (t Terrain) String() string {
	switch t {
	case Hills:
		return "hills"
	case Mountains:
		return "mountains"
	case Forests:
		return "forests"
	case Pastures:
		return "pastures"
	case Fields:
		return "fields"
	case Desert:
		return "desert"
	default:
		return "unassigned"
	}
}

// PortType is the trade discount a port grants.
type PortType int

const (
	PortAny PortType = iota // any resource at 3:1
	PortBrick
	PortOre
	PortWood
	PortWool
	PortWheat
)

// TradeRatio returns how many units of the given resource the port accepts
// for one unit back. ok is false when the port does not discount r.
func (pt PortType) TradeRatio(r Resource) (give int, ok bool) {
	if pt == PortAny {
		return 3, true
	}
	specific := map[PortType]Resource{
		PortBrick: Brick,
		PortOre:   Ore,
		PortWood:  Wood,
		PortWool:  Wool,
		PortWheat: Wheat,
	}
	if specific[pt] == r {
		return 2, true
	}
	return 0, false
}

func (pt PortType) String() string {
	switch pt {
	case PortAny:
		return "3:1 any"
	case PortBrick:
		return "2:1 brick"
	case PortOre:
		return "2:1 ore"
	case PortWood:
		return "2:1 wood"
	case PortWool:
		return "2:1 wool"
	case PortWheat:
		return "2:1 wheat"
	default:
		return "unknown"
	}
}

// Fixed build costs.
var (
	RoadCost       = map[Resource]int{Brick: 1, Wood: 1}
	SettlementCost = map[Resource]int{Brick: 1, Wood: 1, Wool: 1, Wheat: 1}
	CityCost       = map[Resource]int{Wheat: 2, Ore: 3}
	DevCardCost    = map[Resource]int{Wool: 1, Wheat: 1, Ore: 1}
)

const (
	// BankStock is the bank's starting count of each resource kind.
	BankStock = 19

	// Per-player building piece allotments.
	InitialSettlements = 5
	InitialCities      = 4
	InitialRoads       = 15

	// Award thresholds and values.
	LongestRoadMinimum = 5
	LargestArmyMinimum = 3
	AwardPoints        = 2

	// VictoryTarget ends the game the moment a player reaches it.
	VictoryTarget = 10

	// DiscardThreshold is the hand size above which a rolled 7 forces a
	// half discard.
	DiscardThreshold = 7

	// DefaultBankRatio applies when no port improves on it.
	DefaultBankRatio = 4
)
