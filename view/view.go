// Package view shows the intervals a pipeline produced, one stage per row.
package view

import (
	"fmt"
	"strings"

	"almanac/remap"

	"github.com/gdamore/tcell/v2"
)

var (
	DefaultStyle = tcell.StyleDefault.Foreground(tcell.ColorReset).Background(tcell.ColorReset)
	LightStyle   = DefaultStyle.Foreground(tcell.ColorGray)
	HeaderStyle  = DefaultStyle.Bold(true)
)

type View struct {
	screen tcell.Screen
	trace  []remap.StageResult
	status string
}

func New(s tcell.Screen, trace []remap.StageResult, status string) *View {
	return &View{screen: s, trace: trace, status: status}
}

func (v *View) Draw() {
	v.screen.Clear()
	width, height := v.screen.Size()
	Column{
		Fixed(v.headerBox, Abs(1)),
		{Box: v.stagesBox},
		Fixed(v.statusLineBox, Abs(3)),
	}.Draw(width, height)
	v.screen.Show()
}

func (v *View) headerBox(dims Dimensions) {
	drawText(v.screen, dims.Origin.X, dims.Origin.Y, dims.Width, HeaderStyle,
		fmt.Sprintf("%-24s %9s %20s %20s", "stage", "intervals", "covered", "lowest"))
}

func (v *View) stagesBox(dims Dimensions) {
	for i, r := range v.trace {
		if i >= dims.Height {
			break
		}
		lowest := "-"
		if m, ok := r.Output.Min(); ok {
			lowest = fmt.Sprint(m.Start)
		}
		style := DefaultStyle
		if i%2 == 1 {
			style = LightStyle
		}
		drawText(v.screen, dims.Origin.X, dims.Origin.Y+i, dims.Width, style,
			fmt.Sprintf("%-24s %9d %20d %20s", r.Stage.Name, r.Output.Len(), r.Output.Covered(), lowest))
	}
}

func (v *View) statusLineBox(dims Dimensions) {
	xmin, ymin := dims.Origin.X, dims.Origin.Y
	drawBox(v.screen, xmin, ymin, xmin+dims.Width-1, ymin+dims.Height-1, DefaultStyle, v.status)
}

// Run draws until a key is pressed.
func (v *View) Run() {
	v.Draw()
	for {
		switch v.screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.screen.Sync()
			v.Draw()
		case *tcell.EventKey:
			return
		case nil:
			return
		}
	}
}

// Show opens the terminal, runs v and restores the terminal.
func Show(trace []remap.StageResult, status string) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()
	s.SetStyle(DefaultStyle)

	New(s, trace, status).Run()
	return nil
}

func drawText(s tcell.Screen, x, y, width int, style tcell.Style, text string) {
	col := 0
	for _, r := range text {
		if col >= width {
			return
		}
		s.SetContent(x+col, y, r, nil, style)
		col++
	}
}

func drawBox(s tcell.Screen, x1, y1, x2, y2 int, style tcell.Style, text string) {
	if y2 < y1 || x2 < x1 {
		return
	}
	for col := x1; col <= x2; col++ {
		s.SetContent(col, y1, tcell.RuneHLine, nil, style)
		s.SetContent(col, y2, tcell.RuneHLine, nil, style)
	}
	for row := y1 + 1; row < y2; row++ {
		s.SetContent(x1, row, tcell.RuneVLine, nil, style)
		s.SetContent(x2, row, tcell.RuneVLine, nil, style)
	}
	if y1 != y2 && x1 != x2 {
		s.SetContent(x1, y1, tcell.RuneULCorner, nil, style)
		s.SetContent(x2, y1, tcell.RuneURCorner, nil, style)
		s.SetContent(x1, y2, tcell.RuneLLCorner, nil, style)
		s.SetContent(x2, y2, tcell.RuneLRCorner, nil, style)
	}
	if y2-y1 > 1 {
		drawText(s, x1+1, y1+1, x2-x1-1, style, strings.TrimSpace(text))
	}
}
