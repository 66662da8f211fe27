package cmd

import (
	"fmt"
	"io"

	"github.com/iksnae/captain-session/internal"
)

// printerView streams transcript entries to w as they arrive. Side panels
// are left to the commands that need them.
type printerView struct {
	w     io.Writer
	width int
}

func newPrinterView(w io.Writer) *printerView {
	return &printerView{w: w}
}

func (p *printerView) Render(entries []internal.Message) {
	for _, e := range entries {
		p.Append(e)
	}
}

func (p *printerView) Append(entry internal.Message) {
	_, _ = fmt.Fprintf(p.w, "%s\n\n", internal.FormatMessage(entry, p.width))
}

func (p *printerView) ShowPending(id int)                                {}
func (p *printerView) ClearPending(id int)                               {}
func (p *printerView) Clear()                                            {}
func (p *printerView) RenderOrders(orders []internal.Order)              {}
func (p *printerView) RenderSessions(list []internal.Session, id string) {}

func (p *printerView) Notify(text string) {
	_, _ = fmt.Fprintln(p.w, text)
}
