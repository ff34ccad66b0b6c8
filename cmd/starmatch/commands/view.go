package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/teranos/starmatch/galaxy"
	"github.com/teranos/starmatch/registry"
	"github.com/teranos/starmatch/starid"
)

// identityView is how identities are printed.
type identityView struct {
	Name        string     `json:"name"`
	ProcGenName string     `json:"procgen_name"`
	ID          uint64     `json:"id"`
	Region      string     `json:"region"`
	Sub         string     `json:"sub"`
	Class       string     `json:"class"`
	Sequence    uint16     `json:"sequence"`
	Position    [3]float64 `json:"position"`
	EDSMID      uint32     `json:"edsm_id,omitempty"`
	EDDBID      uint32     `json:"eddb_id,omitempty"`
	Sector      string     `json:"sector,omitempty"`
	Outcome     string     `json:"outcome,omitempty"`
}

func viewIdentity(reg *registry.Registry, s registry.StarIdentity, outcome string) identityView {
	p := s.Position()
	v := identityView{
		Name:        reg.Name(s),
		ProcGenName: reg.ProcGenName(s),
		ID:          s.ID(),
		Region:      s.Region.String(),
		Sub:         s.Sub.String(),
		Class:       string(starid.ClassLetter(s.Class)),
		Sequence:    s.Sequence,
		Position:    [3]float64{p.X, p.Y, p.Z},
		EDSMID:      s.ExternalIDA,
		EDDBID:      s.ExternalIDB,
		Outcome:     outcome,
	}
	// Hand-authored sector whose sphere holds the star, whatever it is called.
	if ha := reg.Sectors().FindByPosition(p); ha != nil {
		v.Sector = ha.Name
	}
	return v
}

func (v identityView) rows() [][]string {
	rows := [][]string{
		{"Field", "Value"},
		{"Name", v.Name},
		{"ProcGen name", v.ProcGenName},
		{"ID", strconv.FormatUint(v.ID, 10)},
		{"Region", v.Region},
		{"Sub-region", v.Sub},
		{"Mass code", v.Class},
		{"Sequence", strconv.Itoa(int(v.Sequence))},
		{"Position", galaxy.Position{X: v.Position[0], Y: v.Position[1], Z: v.Position[2]}.String()},
	}
	if v.EDSMID != 0 {
		rows = append(rows, []string{"EDSM id", fmt.Sprint(v.EDSMID)})
	}
	if v.EDDBID != 0 {
		rows = append(rows, []string{"EDDB id", fmt.Sprint(v.EDDBID)})
	}
	if v.Sector != "" {
		rows = append(rows, []string{"Sector", v.Sector})
	}
	if v.Outcome != "" {
		rows = append(rows, []string{"Outcome", v.Outcome})
	}
	return rows
}

func renderTable(w io.Writer, rows [][]string) error {
	return pterm.DefaultTable.
		WithHasHeader().
		WithWriter(w).
		WithData(pterm.TableData(rows)).
		Render()
}
