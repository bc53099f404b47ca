package interaction

import "github.com/couchcryptid/quake-threat-map/internal/domain"

// MarkerView is the per-frame render state of one marker.
type MarkerView struct {
	ID       string          `json:"id"`
	Kind     domain.Kind     `json:"kind"`
	Title    string          `json:"title"`
	Location domain.Location `json:"location"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Radius   float64         `json:"radius"`
	Selected bool            `json:"selected"`
	Clicked  bool            `json:"clicked"`
	Hidden   bool            `json:"hidden"`

	// Quake styling.
	DepthClass     string `json:"depth_class,omitempty"`
	MagnitudeClass string `json:"magnitude_class,omitempty"`
	Recent         bool   `json:"recent,omitempty"`
	Country        string `json:"country,omitempty"`
}

// Link is a line from a clicked quake to a city inside its threat circle.
type Link struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	X2   float64 `json:"x2"`
	Y2   float64 `json:"y2"`
}

// Frame is everything the renderer needs to draw one frame.
type Frame struct {
	ClickState ClickState      `json:"click_state"`
	Hovered    string          `json:"hovered,omitempty"`
	Clicked    string          `json:"clicked,omitempty"`
	GuideY     *float64        `json:"guide_y,omitempty"`
	Markers    []MarkerView    `json:"markers"`
	Summary    *domain.Summary `json:"summary,omitempty"`

	// SummaryText is Summary rendered as the panel text.
	SummaryText string `json:"summary_text,omitempty"`
	Links       []Link `json:"links,omitempty"`
}

// Frame snapshots the current marker flags for the renderer.
func (s *Session) Frame() Frame {
	f := Frame{
		ClickState: s.click.State(),
		Markers:    make([]MarkerView, 0, len(s.markers.Quakes)+len(s.markers.Cities)),
	}
	if t := s.hover.Target(); t != nil {
		f.Hovered = t.ID
	}
	if s.guideVisible() {
		y := s.pointerY
		f.GuideY = &y
	}

	for _, m := range s.markers.All() {
		f.Markers = append(f.Markers, s.view(m))
	}

	target := s.click.Target()
	if target == nil {
		return f
	}
	f.Clicked = target.ID

	var summary domain.Summary
	if target.IsQuake() {
		summary = domain.SummarizeQuake(target, s.markers.Cities)
		f.Links = s.links(target)
	} else {
		summary = domain.SummarizeCity(target, s.markers.Quakes)
	}
	f.Summary = &summary
	f.SummaryText = summary.Text()
	return f
}

func (s *Session) view(m *domain.Marker) MarkerView {
	x, y := s.backend.Project(m.Location)
	v := MarkerView{
		ID:       m.ID,
		Kind:     m.Kind,
		Title:    m.Title(),
		Location: m.Location,
		X:        x,
		Y:        y,
		Radius:   m.Radius(),
		Selected: m.Selected,
		Clicked:  m.Clicked,
		Hidden:   m.Hidden,
	}
	if m.Quake != nil {
		v.DepthClass = domain.DepthClass(m.Quake.Depth)
		v.MagnitudeClass = domain.MagnitudeClass(m.Quake.Magnitude)
		v.Recent = domain.IsRecent(m.Quake.Age)
		v.Country = m.Quake.Country
	}
	return v
}

func (s *Session) links(quake *domain.Marker) []Link {
	qx, qy := s.backend.Project(quake.Location)
	var links []Link
	for _, c := range domain.ThreatenedCities(quake, s.markers.Cities) {
		cx, cy := s.backend.Project(c.Location)
		links = append(links, Link{From: quake.ID, To: c.ID, X1: qx, Y1: qy, X2: cx, Y2: cy})
	}
	return links
}
