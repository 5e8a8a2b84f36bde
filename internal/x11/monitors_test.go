package x11

import "testing"

func TestApplyStruts(t *testing.T) {
	left := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := Rect{X: 1920, Y: 0, Width: 1280, Height: 1024}
	rootW, rootH := 3200, 1080

	tests := []struct {
		name   string
		bounds Rect
		struts []Strut
		want   Rect
	}{
		{
			name:   "no struts",
			bounds: left,
			want:   left,
		},
		{
			name:   "top bar spanning first monitor",
			bounds: left,
			struts: []Strut{{Top: 30, TopStartX: 0, TopEndX: 1919}},
			want:   Rect{X: 0, Y: 30, Width: 1920, Height: 1050},
		},
		{
			name:   "top bar on other monitor is ignored",
			bounds: right,
			struts: []Strut{{Top: 30, TopStartX: 0, TopEndX: 1919}},
			want:   right,
		},
		{
			name:   "bottom dock only partly overlapping",
			bounds: left,
			struts: []Strut{{Bottom: 48, BottomStartX: 1800, BottomEndX: 2500}},
			want:   Rect{X: 0, Y: 0, Width: 1920, Height: 1032},
		},
		{
			name:   "largest strut per side wins",
			bounds: left,
			struts: []Strut{
				{Left: 40, LeftStartY: 0, LeftEndY: 1079},
				{Left: 64, LeftStartY: 0, LeftEndY: 1079},
			},
			want: Rect{X: 64, Y: 0, Width: 1856, Height: 1080},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyStruts(tt.bounds, rootW, rootH, tt.struts)
			if got != tt.want {
				t.Fatalf("ApplyStruts() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMonitorAt(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Name: "DP-1", Bounds: Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
		{ID: 1, Name: "HDMI-1", Bounds: Rect{X: 1920, Y: 0, Width: 1280, Height: 1024}},
	}

	if got := MonitorAt(monitors, 2000, 10); got.Name != "HDMI-1" {
		t.Fatalf("MonitorAt(2000,10) = %q, want HDMI-1", got.Name)
	}
	if got := MonitorAt(monitors, -50, -50); got.Name != "DP-1" {
		t.Fatalf("MonitorAt off-screen = %q, want first monitor", got.Name)
	}
}
