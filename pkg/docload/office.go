package docload

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// The OOXML and OpenXPS formats are zip containers of XML parts. The
// extractors below walk the relevant parts and harvest their text runs,
// joining paragraphs with newlines.

func openZip(r io.Reader) (*zip.Reader, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return zr, nil
}

func readZipPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// loadDocx harvests the w:t runs of word/document.xml, starting a new
// line for each w:p paragraph.
func loadDocx(r io.Reader) (string, error) {
	zr, err := openZip(r)
	if err != nil {
		return "", err
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		data, err := readZipPart(f)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		text, err := harvestRuns(data, "t", "p")
		if err != nil {
			return "", err
		}
		return text, nil
	}
	return "", fmt.Errorf("%w: missing word/document.xml", ErrExtraction)
}

// loadPptx harvests the a:t runs of every slide, in slide order.
func loadPptx(r io.Reader) (string, error) {
	zr, err := openZip(r)
	if err != nil {
		return "", err
	}

	var slides []*zip.File
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slides = append(slides, f)
		}
	}
	sort.Slice(slides, func(i, j int) bool {
		return slideNumber(slides[i].Name) < slideNumber(slides[j].Name)
	})

	var parts []string
	for _, f := range slides {
		data, err := readZipPart(f)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		text, err := harvestRuns(data, "t", "p")
		if err != nil {
			return "", err
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func slideNumber(name string) int {
	name = strings.TrimPrefix(name, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	n, err := strconv.Atoi(name)
	if err != nil {
		return 0
	}
	return n
}

// loadXlsx resolves the shared string table and then walks every sheet,
// emitting one line per row with cells joined by tabs.
func loadXlsx(r io.Reader) (string, error) {
	zr, err := openZip(r)
	if err != nil {
		return "", err
	}

	var shared []string
	for _, f := range zr.File {
		if f.Name != "xl/sharedStrings.xml" {
			continue
		}
		data, err := readZipPart(f)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		shared, err = parseSharedStrings(data)
		if err != nil {
			return "", err
		}
	}

	var sheets []*zip.File
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "xl/worksheets/sheet") && strings.HasSuffix(f.Name, ".xml") {
			sheets = append(sheets, f)
		}
	}
	sort.Slice(sheets, func(i, j int) bool { return sheets[i].Name < sheets[j].Name })

	var lines []string
	for _, f := range sheets {
		data, err := readZipPart(f)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		sheetLines, err := parseWorksheet(data, shared)
		if err != nil {
			return "", err
		}
		lines = append(lines, sheetLines...)
	}
	return strings.Join(lines, "\n"), nil
}

func parseSharedStrings(data []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		shared  []string
		current strings.Builder
		inSI    bool
		inT     bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "si":
				inSI = true
				current.Reset()
			case "t":
				inT = inSI
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "si":
				inSI = false
				shared = append(shared, current.String())
			case "t":
				inT = false
			}
		case xml.CharData:
			if inT {
				current.Write(t)
			}
		}
	}
	return shared, nil
}

func parseWorksheet(data []byte, shared []string) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		lines      []string
		row        []string
		cellType   string
		inValue    bool
		value      strings.Builder
		insideCell bool
	)
	flushCell := func() {
		if !insideCell {
			return
		}
		insideCell = false
		v := value.String()
		if cellType == "s" {
			idx, err := strconv.Atoi(strings.TrimSpace(v))
			if err == nil && idx >= 0 && idx < len(shared) {
				v = shared[idx]
			}
		}
		if v != "" {
			row = append(row, v)
		}
	}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "row":
				row = row[:0]
			case "c":
				insideCell = true
				cellType = ""
				value.Reset()
				for _, a := range t.Attr {
					if a.Name.Local == "t" {
						cellType = a.Value
					}
				}
			case "v", "t":
				inValue = insideCell
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "row":
				flushCell()
				if len(row) > 0 {
					lines = append(lines, strings.Join(row, "\t"))
				}
			case "c":
				flushCell()
			case "v", "t":
				inValue = false
			}
		case xml.CharData:
			if inValue {
				value.Write(t)
			}
		}
	}
	return lines, nil
}

// loadXPS harvests the UnicodeString attribute of every Glyphs element
// across the fixed pages.
func loadXPS(r io.Reader) (string, error) {
	zr, err := openZip(r)
	if err != nil {
		return "", err
	}

	var pages []*zip.File
	for _, f := range zr.File {
		lower := strings.ToLower(f.Name)
		if strings.Contains(lower, "pages/") && strings.HasSuffix(lower, ".fpage") {
			pages = append(pages, f)
		}
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Name < pages[j].Name })

	var parts []string
	for _, f := range pages {
		data, err := readZipPart(f)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		dec := xml.NewDecoder(bytes.NewReader(data))
		for {
			tok, err := dec.Token()
			if err == io.EOF {
				break
			}
			if err != nil {
				return "", fmt.Errorf("%w: %v", ErrExtraction, err)
			}
			start, ok := tok.(xml.StartElement)
			if !ok || start.Name.Local != "Glyphs" {
				continue
			}
			for _, a := range start.Attr {
				if a.Name.Local == "UnicodeString" && a.Value != "" {
					parts = append(parts, a.Value)
				}
			}
		}
	}
	return strings.Join(parts, " "), nil
}

// harvestRuns collects character data inside elements named textElem,
// inserting a newline at the close of each paraElem.
func harvestRuns(data []byte, textElem, paraElem string) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		out    strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == textElem {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case textElem:
				inText = false
			case paraElem:
				out.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		}
	}
	return strings.TrimSpace(out.String()), nil
}
