package export

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// PrintDocument is the compound HTML document of a multi-page export.
type PrintDocument struct {
	HTML  []byte
	Pages int
}

// MIMEType is the media type of print documents.
const MIMEType = "text/html; charset=utf-8"

const printCSS = `@media print {
  @page { size: A4; margin: 0; }
  body { margin: 0; padding: 0; -webkit-print-color-adjust: exact; }
  .p { width: 210mm; height: 297mm; page-break-after: always; display: block; }
  svg { width: 100%; height: 100%; display: block; }
}
body { margin: 0; background: #222; display: flex; flex-direction: column; align-items: center; }
.p { background: white; width: 210mm; height: 297mm; margin-bottom: 20px; }`

// HandoffScript prints once the document has loaded and its fonts are
// ready, then closes the window after the dialog is dismissed. A positive
// settle delay is added between fonts ready and print.
func HandoffScript(settle time.Duration) string {
	printCall := "window.print();"
	if settle > 0 {
		printCall = fmt.Sprintf("setTimeout(function () { window.print(); }, %d);", settle.Milliseconds())
	}
	return `(function () {
  function fontsReady() {
    return document.fonts && document.fonts.ready ? document.fonts.ready : Promise.resolve();
  }
  window.addEventListener("afterprint", function () { window.close(); });
  window.addEventListener("load", function () {
    fontsReady().then(function () { ` + printCall + ` });
  });
})();`
}

func newPrintDocument(title string, pages [][]byte, settle time.Duration) *PrintDocument {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n<style>\n")
	b.WriteString(printCSS)
	b.WriteString("\n</style>\n</head>\n<body>\n")
	for _, p := range pages {
		b.WriteString(`<div class="p">`)
		b.Write(p)
		b.WriteString("</div>\n")
	}
	b.WriteString("<script>\n")
	b.WriteString(HandoffScript(settle))
	b.WriteString("\n</script>\n</body>\n</html>\n")
	return &PrintDocument{HTML: []byte(b.String()), Pages: len(pages)}
}
