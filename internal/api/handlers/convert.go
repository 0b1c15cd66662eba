package handlers

import (
	"store-route-assistant/internal/api/dto"
	"store-route-assistant/internal/domain"
	"store-route-assistant/internal/services"
)

func xy(p domain.Point) [2]float64 { return [2]float64{p.X, p.Y} }

func toPins(pins []services.Pin) []dto.PinResponse {
	out := make([]dto.PinResponse, 0, len(pins))
	for _, p := range pins {
		out = append(out, dto.PinResponse{
			Item:     p.Item,
			Section:  p.Section,
			Position: xy(p.Position),
			Step:     p.Step,
			Style:    string(p.Style),
		})
	}
	return out
}

func toTrip(t *services.Trip) *dto.TripResponse {
	if t == nil {
		return nil
	}

	res := &dto.TripResponse{
		ID:                   t.ID,
		Items:                t.Items,
		Stops:                make([]dto.TripStopResponse, 0, len(t.Stops)),
		Path:                 make([][2]float64, 0, len(t.Path)),
		TotalDistance:        t.Metrics.TotalDistance,
		EstimatedTimeMinutes: t.Metrics.EstimatedTimeMinutes,
		SavingsPercent:       t.Metrics.SavingsPercent,
		ReportedDistance:     t.ReportedDistance,
		ReportedTime:         t.ReportedTime,
		Directions:           t.Directions,
		Pins:                 toPins(t.Pins),
		Unmapped:             t.Unmapped,
	}

	for _, s := range t.Stops {
		stop := dto.TripStopResponse{Item: s.Item, Section: s.Section, Step: s.Step}
		if s.Coordinates != nil {
			c := xy(*s.Coordinates)
			stop.Coordinates = &c
		}
		res.Stops = append(res.Stops, stop)
	}
	for _, wp := range t.Path {
		res.Path = append(res.Path, xy(wp))
	}

	return res
}

func toState(v services.ViewState) dto.StateResponse {
	res := dto.StateResponse{
		State:         v.State.String(),
		Available:     v.Available,
		Selected:      v.Selected,
		SelectedCount: v.SelectedCount,
		Pins:          toPins(v.Pins),
		Unmapped:      v.Unmapped,
		LastTrip:      toTrip(v.LastTrip),
	}
	for _, list := range []*[]string{&res.Available, &res.Selected, &res.Unmapped} {
		if *list == nil {
			*list = []string{}
		}
	}
	if v.Notice != nil {
		res.Notice = &dto.NoticeResponse{
			Message:   v.Notice.Message,
			Kind:      v.Notice.Kind.String(),
			ExpiresAt: v.Notice.ExpiresAt,
		}
	}
	return res
}

func toLayout(l domain.Layout) dto.LayoutResponse {
	w, h := l.Grid.PixelBounds()
	res := dto.LayoutResponse{
		Cols:      l.Grid.Cols,
		Rows:      l.Grid.Rows,
		GridSize:  l.Grid.Size,
		Width:     w,
		Height:    h,
		Obstacles: make([]dto.ObstacleResponse, 0, len(l.Obstacles)),
		Entrance:  xy(l.Entrance),
		Exit:      xy(l.Exit),
	}
	for _, o := range l.Obstacles {
		res.Obstacles = append(res.Obstacles, dto.ObstacleResponse{
			Label:   o.Label,
			X:       o.X,
			Y:       o.Y,
			W:       o.W,
			H:       o.H,
			Color:   o.Color,
			LabelAt: xy(o.LabelPosition(l.Grid.Size)),
		})
	}
	return res
}
