package app

import (
	"encoding/json"

	"eriantys/internal/domain"
)

// Snapshot is the full, self-contained view of a match sent to every party after each
// accepted move.
type Snapshot struct {
	Players      int               `json:"players"`
	Expert       bool              `json:"expert"`
	Stage        domain.Stage      `json:"stage"`
	Round        int               `json:"round"`
	Current      string            `json:"current,omitempty"`
	MotherNature int               `json:"motherNature"`
	Bag          int               `json:"bag"`
	Bank         int               `json:"bank,omitempty"`
	NoEntryTiles int               `json:"noEntryTiles,omitempty"`
	LastRound    bool              `json:"lastRound"`
	Professors   map[string]string `json:"professors"`
	Board        []PlayerView      `json:"board"`
	Islands      []IslandView      `json:"islands"`
	Clouds       []map[string]int  `json:"clouds"`
	Characters   []CharacterView   `json:"characters,omitempty"`
	ActionOrder  []string          `json:"actionOrder,omitempty"`
	Winner       domain.TowerColor `json:"winner,omitempty"`
	Draw         bool              `json:"draw,omitempty"`
}

type PlayerView struct {
	Nickname   string            `json:"nickname"`
	Wizard     domain.Wizard     `json:"wizard"`
	Tower      domain.TowerColor `json:"tower"`
	Leader     bool              `json:"leader"`
	Towers     int               `json:"towers"`
	Coins      int               `json:"coins"`
	Entrance   map[string]int    `json:"entrance"`
	Hall       map[string]int    `json:"hall"`
	Assistants []int             `json:"assistants"`
	Played     int               `json:"played,omitempty"`
}

type IslandView struct {
	Students map[string]int    `json:"students"`
	Tower    domain.TowerColor `json:"tower,omitempty"`
	Towers   int               `json:"towers"`
	NoEntry  int               `json:"noEntry,omitempty"`
	Size     int               `json:"size"`
}

type CharacterView struct {
	Kind domain.CharacterKind `json:"kind"`
	Cost int                  `json:"cost"`
}

// NewSnapshot copies the state of m.
func NewSnapshot(m *domain.Match) Snapshot {
	s := Snapshot{
		Players:      m.Variant.Players,
		Expert:       m.Expert,
		Stage:        m.Stage,
		Round:        m.Round,
		MotherNature: m.MotherNature,
		Bag:          m.Bag.Total(),
		Bank:         m.Bank,
		NoEntryTiles: m.NoEntryTiles,
		LastRound:    m.LastRound,
		Professors:   map[string]string{},
		Winner:       m.Winner,
		Draw:         m.Draw,
	}
	if p := m.CurrentPlayer(); p != nil {
		s.Current = p.Nickname
	}
	for c, owner := range m.Professors {
		if owner >= 0 {
			s.Professors[domain.Color(c).String()] = m.Players[owner].Nickname
		}
	}
	for _, p := range m.Players {
		view := PlayerView{
			Nickname: p.Nickname,
			Wizard:   p.Wizard,
			Tower:    p.Tower,
			Leader:   p.Leader,
			Towers:   p.Towers,
			Coins:    p.Coins,
			Entrance: studentMap(p.Board.Entrance),
			Hall:     studentMap(p.Board.Hall),
		}
		view.Assistants = make([]int, 0, len(p.Assistants))
		for _, a := range p.Assistants {
			view.Assistants = append(view.Assistants, a.Priority)
		}
		if p.Played != nil {
			view.Played = p.Played.Priority
		}
		s.Board = append(s.Board, view)
	}
	for _, island := range m.Islands {
		s.Islands = append(s.Islands, IslandView{
			Students: studentMap(island.Students),
			Tower:    island.Tower,
			Towers:   island.Towers,
			NoEntry:  island.NoEntry,
			Size:     island.Size,
		})
	}
	for _, cloud := range m.Clouds {
		s.Clouds = append(s.Clouds, studentMap(cloud.Students))
	}
	for _, c := range m.Characters {
		s.Characters = append(s.Characters, CharacterView{Kind: c.Kind, Cost: c.Cost})
	}
	if m.Stage != domain.StagePlanningPlayAssistants {
		for _, i := range m.ActionOrder {
			s.ActionOrder = append(s.ActionOrder, m.Players[i].Nickname)
		}
	}
	return s
}

func studentMap(st domain.Students) map[string]int {
	out := make(map[string]int, domain.NumColors)
	for _, c := range domain.AllColors() {
		out[c.String()] = st[c]
	}
	return out
}

// JSON renders the snapshot on a single line.
func (s Snapshot) JSON() string {
	b, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(b)
}
