package game

import (
	"fmt"
	"math/rand"

	"golang.org/x/exp/slices"
)

// BuildingKind distinguishes the two building variants that can occupy a plot.
type BuildingKind int

const (
	SettlementBuilding BuildingKind = iota
	CityBuilding
)

func (k BuildingKind) String() string {
	if k == CityBuilding {
		return "city"
	}
	return "settlement"
}

// Building occupies a plot. A city only ever appears by replacing a
// settlement of the same owner in place.
type Building struct {
	Kind     BuildingKind
	PlayerID int
	PlotID   int
}

// ResourceMultiplier is how many units the building collects per production.
func (bld *Building) ResourceMultiplier() int {
	switch bld.Kind {
	case CityBuilding:
		return 2
	default:
		return 1
	}
}

// VictoryPoints the building is worth.
func (bld *Building) VictoryPoints() int {
	switch bld.Kind {
	case CityBuilding:
		return 2
	default:
		return 1
	}
}

// Road occupies a path. Immutable once placed.
type Road struct {
	PlayerID int
	PathID   int
}

// Plot is a vertex of the board graph: a buildable corner shared by up to
// three hexagons.
type Plot struct {
	ID       int
	Building *Building
	HexIDs   []int // 1-3 adjacent hexagons
	PathIDs  []int // 2-3 adjacent paths
	PlotIDs  []int // 2-3 plots reachable by exactly one path
	PortID   int   // 0 when the plot has no port
}

// Occupied reports whether a building stands on the plot.
func (p *Plot) Occupied() bool {
	return p.Building != nil
}

// Path is an edge of the board graph connecting two plots.
type Path struct {
	ID      int
	PlotIDs [2]int
	Road    *Road
	HexIDs  []int // 1-2 adjacent hexagons
}

// Occupied reports whether a road lies on the path.
func (p *Path) Occupied() bool {
	return p.Road != nil
}

// OtherPlot returns the endpoint opposite to plotID, or 0 if plotID is not
// an endpoint of this path.
func (p *Path) OtherPlot(plotID int) int {
	switch plotID {
	case p.PlotIDs[0]:
		return p.PlotIDs[1]
	case p.PlotIDs[1]:
		return p.PlotIDs[0]
	default:
		return 0
	}
}

// Hexagon is a terrain tile. Plots and paths are listed in clockwise order,
// index = position.
type Hexagon struct {
	ID        int
	Terrain   Terrain
	Roll      int // 2-12 except 7; 0 for the desert
	HasRobber bool
	PlotIDs   [6]int
	PathIDs   [6]int
}

// Resource returns the resource this hexagon produces, if any.
func (h *Hexagon) Resource() (Resource, bool) {
	return h.Terrain.Resource()
}

// Port grants a trade discount to the two plots it is bound to.
type Port struct {
	ID      int
	Type    PortType
	PlotIDs [2]int
}

// Board owns the full topology graph plus the robber's location. The graph
// is built once and never changes; buildings and roads are the only mutable
// pieces.
type Board struct {
	Hexagons    []*Hexagon // index = ID-1, IDs 1-19
	Plots       map[int]*Plot
	Paths       map[int]*Path
	Ports       []*Port
	RobberHexID int
}

const (
	numHexagons = 19
	numPlots    = 54
	numPaths    = 72
)

// neighbor describes one adjacent hexagon and how local edge indices map to
// the neighbor's edge indices along the shared border.
type neighbor struct {
	hex   int
	edges map[int]int // my edge -> neighbor edge
}

// hexAdjacency encodes the 3-4-5-4-3 layout. Hex IDs run 1-19 left to right,
// top to bottom; edge i connects vertices i and i+1 mod 6.
var hexAdjacency = map[int][]neighbor{
	1:  {{2, map[int]int{2: 5}}, {5, map[int]int{3: 0, 4: 1}}, {4, map[int]int{4: 0, 5: 1}}},
	2:  {{1, map[int]int{5: 2}}, {3, map[int]int{2: 5}}, {6, map[int]int{3: 0, 4: 1}}, {5, map[int]int{4: 0, 5: 1}}},
	3:  {{2, map[int]int{5: 2}}, {7, map[int]int{3: 0, 4: 1}}, {6, map[int]int{4: 0, 5: 1}}},
	4:  {{1, map[int]int{0: 4, 1: 5}}, {5, map[int]int{2: 5}}, {9, map[int]int{3: 0, 4: 1}}, {8, map[int]int{4: 0, 5: 1}}},
	5:  {{1, map[int]int{0: 3, 1: 4}}, {2, map[int]int{0: 4, 1: 5}}, {4, map[int]int{5: 2}}, {6, map[int]int{2: 5}}, {10, map[int]int{3: 0, 4: 1}}, {9, map[int]int{4: 0, 5: 1}}},
	6:  {{2, map[int]int{0: 3, 1: 4}}, {3, map[int]int{0: 4, 1: 5}}, {5, map[int]int{5: 2}}, {7, map[int]int{2: 5}}, {11, map[int]int{3: 0, 4: 1}}, {10, map[int]int{4: 0, 5: 1}}},
	7:  {{3, map[int]int{0: 3, 1: 4}}, {6, map[int]int{5: 2}}, {12, map[int]int{3: 0, 4: 1}}, {11, map[int]int{4: 0, 5: 1}}},
	8:  {{4, map[int]int{0: 4, 1: 5}}, {9, map[int]int{2: 5}}, {13, map[int]int{3: 0, 4: 1}}},
	9:  {{4, map[int]int{0: 3, 1: 4}}, {5, map[int]int{0: 4, 1: 5}}, {8, map[int]int{5: 2}}, {10, map[int]int{2: 5}}, {14, map[int]int{3: 0, 4: 1}}, {13, map[int]int{4: 0, 5: 1}}},
	10: {{5, map[int]int{0: 3, 1: 4}}, {6, map[int]int{0: 4, 1: 5}}, {9, map[int]int{5: 2}}, {11, map[int]int{2: 5}}, {15, map[int]int{3: 0, 4: 1}}, {14, map[int]int{4: 0, 5: 1}}},
	11: {{6, map[int]int{0: 3, 1: 4}}, {7, map[int]int{0: 4, 1: 5}}, {10, map[int]int{5: 2}}, {12, map[int]int{2: 5}}, {16, map[int]int{3: 0, 4: 1}}, {15, map[int]int{4: 0, 5: 1}}},
	12: {{7, map[int]int{0: 3, 1: 4}}, {11, map[int]int{5: 2}}, {16, map[int]int{4: 0, 5: 1}}},
	13: {{8, map[int]int{0: 3, 1: 4}}, {9, map[int]int{0: 4, 1: 5}}, {14, map[int]int{2: 5}}, {17, map[int]int{3: 0, 4: 1}}},
	14: {{9, map[int]int{0: 3, 1: 4}}, {10, map[int]int{0: 4, 1: 5}}, {13, map[int]int{5: 2}}, {15, map[int]int{2: 5}}, {18, map[int]int{3: 0, 4: 1}}, {17, map[int]int{4: 0, 5: 1}}},
	15: {{10, map[int]int{0: 3, 1: 4}}, {11, map[int]int{0: 4, 1: 5}}, {14, map[int]int{5: 2}}, {16, map[int]int{2: 5}}, {19, map[int]int{3: 0, 4: 1}}, {18, map[int]int{4: 0, 5: 1}}},
	16: {{11, map[int]int{0: 3, 1: 4}}, {12, map[int]int{0: 4, 1: 5}}, {15, map[int]int{5: 2}}, {19, map[int]int{4: 0, 5: 1}}},
	17: {{13, map[int]int{0: 3, 1: 4}}, {14, map[int]int{0: 4, 1: 5}}, {18, map[int]int{2: 5}}},
	18: {{14, map[int]int{0: 3, 1: 4}}, {15, map[int]int{0: 4, 1: 5}}, {17, map[int]int{5: 2}}, {19, map[int]int{2: 5}}},
	19: {{15, map[int]int{0: 3, 1: 4}}, {16, map[int]int{0: 4, 1: 5}}, {18, map[int]int{5: 2}}},
}

// portLayout binds each port to two local vertices of a specific hexagon.
var portLayout = []struct {
	portType PortType
	hexID    int
	vertices [2]int
}{
	{PortAny, 1, [2]int{0, 5}},
	{PortWheat, 2, [2]int{0, 1}},
	{PortOre, 7, [2]int{0, 1}},
	{PortWood, 4, [2]int{4, 5}},
	{PortAny, 12, [2]int{1, 2}},
	{PortBrick, 13, [2]int{4, 5}},
	{PortWool, 16, [2]int{2, 3}},
	{PortAny, 17, [2]int{3, 4}},
	{PortAny, 18, [2]int{2, 3}},
}

// NewBoard builds the deduplicated hexagon/plot/path graph and attaches the
// ports. It panics if the adjacency table produces an inconsistent graph;
// no game can run on one.
func NewBoard() *Board {
	b := &Board{
		Plots: make(map[int]*Plot),
		Paths: make(map[int]*Path),
	}
	for id := 1; id <= numHexagons; id++ {
		b.Hexagons = append(b.Hexagons, &Hexagon{ID: id})
	}

	b.buildPlots()
	b.buildPaths()

	if len(b.Plots) != numPlots || len(b.Paths) != numPaths {
		panic(fmt.Sprintf("board construction produced %d plots and %d paths, want %d and %d",
			len(b.Plots), len(b.Paths), numPlots, numPaths))
	}

	b.attachPorts()
	return b
}

// buildPlots visits hexagons in increasing ID order and registers each local
// vertex, reusing the plot an earlier-processed neighbor registered for the
// shared edge when there is one.
func (b *Board) buildPlots() {
	type vertexKey struct {
		hexID  int
		vertex int
	}
	plotAt := make(map[vertexKey]*Plot)
	nextID := 0

	for hexID := 1; hexID <= numHexagons; hexID++ {
		hex := b.Hexagons[hexID-1]
		for vertex := 0; vertex < 6; vertex++ {
			var plot *Plot
			for _, nb := range hexAdjacency[hexID] {
				if nb.hex >= hexID {
					continue // only earlier hexes can have registered this vertex
				}
				for myEdge, nbEdge := range nb.edges {
					// Edge e runs between vertices e and e+1; the shared
					// border reverses vertex order on the neighbor's side.
					switch vertex {
					case myEdge:
						plot = plotAt[vertexKey{nb.hex, (nbEdge + 1) % 6}]
					case (myEdge + 1) % 6:
						plot = plotAt[vertexKey{nb.hex, nbEdge}]
					}
					if plot != nil {
						break
					}
				}
				if plot != nil {
					break
				}
			}
			if plot == nil {
				nextID++
				plot = &Plot{ID: nextID}
				b.Plots[plot.ID] = plot
			}
			if !slices.Contains(plot.HexIDs, hexID) {
				plot.HexIDs = append(plot.HexIDs, hexID)
			}
			plotAt[vertexKey{hexID, vertex}] = plot
			hex.PlotIDs[vertex] = plot.ID
		}
	}
}

// buildPaths connects consecutive plots around every hexagon, reusing the
// path when one already joins the pair.
func (b *Board) buildPaths() {
	nextID := 0
	for _, hex := range b.Hexagons {
		for i := 0; i < 6; i++ {
			p1 := b.Plots[hex.PlotIDs[i]]
			p2 := b.Plots[hex.PlotIDs[(i+1)%6]]

			var path *Path
			for _, pathID := range p1.PathIDs {
				if candidate := b.Paths[pathID]; candidate.OtherPlot(p1.ID) == p2.ID {
					path = candidate
					break
				}
			}
			if path == nil {
				nextID++
				path = &Path{ID: nextID, PlotIDs: [2]int{p1.ID, p2.ID}}
				b.Paths[path.ID] = path
				p1.PathIDs = append(p1.PathIDs, path.ID)
				p2.PathIDs = append(p2.PathIDs, path.ID)
				p1.PlotIDs = append(p1.PlotIDs, p2.ID)
				p2.PlotIDs = append(p2.PlotIDs, p1.ID)
			}
			hex.PathIDs[i] = path.ID
			if !slices.Contains(path.HexIDs, hex.ID) {
				path.HexIDs = append(path.HexIDs, hex.ID)
			}
		}
	}
}

func (b *Board) attachPorts() {
	for i, cfg := range portLayout {
		hex := b.Hexagons[cfg.hexID-1]
		port := &Port{
			ID:      i + 1,
			Type:    cfg.portType,
			PlotIDs: [2]int{hex.PlotIDs[cfg.vertices[0]], hex.PlotIDs[cfg.vertices[1]]},
		}
		b.Ports = append(b.Ports, port)
		for _, plotID := range port.PlotIDs {
			b.Plots[plotID].PortID = port.ID
		}
	}
}

// Hexagon returns the hexagon with the given ID, or nil.
func (b *Board) Hexagon(id int) *Hexagon {
	if id < 1 || id > len(b.Hexagons) {
		return nil
	}
	return b.Hexagons[id-1]
}

// Port returns the port with the given ID, or nil.
func (b *Board) Port(id int) *Port {
	if id < 1 || id > len(b.Ports) {
		return nil
	}
	return b.Ports[id-1]
}

// SetupRandom shuffles the fixed terrain and roll-number multisets across the
// hexagons and parks the robber on the desert.
func (b *Board) SetupRandom(rng *rand.Rand) {
	terrains := []Terrain{
		Hills, Hills, Hills,
		Mountains, Mountains, Mountains,
		Forests, Forests, Forests, Forests,
		Pastures, Pastures, Pastures, Pastures,
		Fields, Fields, Fields, Fields,
		Desert,
	}
	rng.Shuffle(len(terrains), func(i, j int) {
		terrains[i], terrains[j] = terrains[j], terrains[i]
	})

	for i, hex := range b.Hexagons {
		hex.Terrain = terrains[i]
		if hex.Terrain == Desert {
			hex.HasRobber = true
			b.RobberHexID = hex.ID
		}
	}

	rolls := []int{2, 3, 3, 4, 4, 5, 5, 6, 6, 8, 8, 9, 9, 10, 10, 11, 11, 12}
	rng.Shuffle(len(rolls), func(i, j int) {
		rolls[i], rolls[j] = rolls[j], rolls[i]
	})

	next := 0
	for _, hex := range b.Hexagons {
		if hex.Terrain != Desert {
			hex.Roll = rolls[next]
			next++
		}
	}
}

// MoveRobber relocates the robber flag. Rejecting a move to the robber's
// current hexagon is the caller's job.
func (b *Board) MoveRobber(hexID int) error {
	hex := b.Hexagon(hexID)
	if hex == nil {
		return ErrNoSuchTarget
	}
	if prev := b.Hexagon(b.RobberHexID); prev != nil {
		prev.HasRobber = false
	}
	hex.HasRobber = true
	b.RobberHexID = hexID
	return nil
}

// settlementError explains why a settlement cannot go on the plot, or nil.
func (b *Board) settlementError(p *Player, plotID int, initial bool) error {
	plot, ok := b.Plots[plotID]
	if !ok {
		return ErrNoSuchTarget
	}
	if plot.Occupied() {
		return ErrOccupied
	}
	if p.SettlementsLeft <= 0 {
		return ErrNoPiecesLeft
	}
	for _, adjID := range plot.PlotIDs {
		if b.Plots[adjID].Occupied() {
			return ErrTooClose
		}
	}
	if !initial {
		connected := false
		for _, pathID := range plot.PathIDs {
			if road := b.Paths[pathID].Road; road != nil && road.PlayerID == p.ID {
				connected = true
				break
			}
		}
		if !connected {
			return ErrNotConnected
		}
	}
	return nil
}

// CanBuildSettlement reports whether the plot accepts a settlement from the
// player. Initial placements skip the road-connection requirement.
func (b *Board) CanBuildSettlement(p *Player, plotID int, initial bool) bool {
	return b.settlementError(p, plotID, initial) == nil
}

func (b *Board) cityError(p *Player, plotID int) error {
	plot, ok := b.Plots[plotID]
	if !ok {
		return ErrNoSuchTarget
	}
	bld := plot.Building
	if bld == nil || bld.Kind != SettlementBuilding || bld.PlayerID != p.ID {
		return ErrNotASettlement
	}
	if p.CitiesLeft <= 0 {
		return ErrNoPiecesLeft
	}
	return nil
}

// CanBuildCity reports whether the player may upgrade the settlement at the
// plot to a city.
func (b *Board) CanBuildCity(p *Player, plotID int) bool {
	return b.cityError(p, plotID) == nil
}

func (b *Board) roadError(p *Player, pathID int) error {
	path, ok := b.Paths[pathID]
	if !ok {
		return ErrNoSuchTarget
	}
	if path.Occupied() {
		return ErrOccupied
	}
	if p.RoadsLeft <= 0 {
		return ErrNoPiecesLeft
	}

	// Connected through an own building at either endpoint.
	for _, plotID := range path.PlotIDs {
		if bld := b.Plots[plotID].Building; bld != nil && bld.PlayerID == p.ID {
			return nil
		}
	}

	// Or through an own road, unless an opponent building blocks the plot.
	for _, plotID := range path.PlotIDs {
		plot := b.Plots[plotID]
		if bld := plot.Building; bld != nil && bld.PlayerID != p.ID {
			continue
		}
		for _, adjID := range plot.PathIDs {
			if adjID == path.ID {
				continue
			}
			if road := b.Paths[adjID].Road; road != nil && road.PlayerID == p.ID {
				return nil
			}
		}
	}
	return ErrNotConnected
}

// CanBuildRoad reports whether the path accepts a road from the player.
func (b *Board) CanBuildRoad(p *Player, pathID int) bool {
	return b.roadError(p, pathID) == nil
}

// LongestRoad returns the length of the player's longest simple road chain.
// Opponent buildings block continuation through a plot but a chain may still
// end there. Each search branch tracks its own visited edges, so branching
// networks report the true longest simple path rather than an edge count.
func (b *Board) LongestRoad(playerID int) int {
	best := 0
	for _, path := range b.Paths {
		if path.Road == nil || path.Road.PlayerID != playerID {
			continue
		}
		for _, plotID := range path.PlotIDs {
			visited := map[int]bool{path.ID: true}
			if l := b.walkRoads(playerID, plotID, visited); l > best {
				best = l
			}
		}
	}
	return best
}

// walkRoads returns the longest chain length counting the edge just entered
// (already marked in visited) and continuing out of exitPlotID.
func (b *Board) walkRoads(playerID, exitPlotID int, visited map[int]bool) int {
	length := 1
	plot := b.Plots[exitPlotID]
	if bld := plot.Building; bld != nil && bld.PlayerID != playerID {
		return length
	}
	for _, nextID := range plot.PathIDs {
		if visited[nextID] {
			continue
		}
		next := b.Paths[nextID]
		if next.Road == nil || next.Road.PlayerID != playerID {
			continue
		}
		visited[nextID] = true
		if l := 1 + b.walkRoads(playerID, next.OtherPlot(exitPlotID), visited); l > length {
			length = l
		}
		delete(visited, nextID)
	}
	return length
}
