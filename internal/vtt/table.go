package vtt

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
)

// TableHeader is the first row of every parsed table.
const TableHeader = "start,end,position,line,text"

// WriteTable writes the header and one row per cue. Text is always quoted;
// it never contains '"' because the parser removes them.
func WriteTable(w io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(TableHeader + "\n"); err != nil {
		return err
	}
	for _, cue := range cues {
		bw.WriteString(cue.Start)
		bw.WriteByte(',')
		bw.WriteString(cue.End)
		bw.WriteByte(',')
		bw.WriteString(strconv.Itoa(cue.Position))
		bw.WriteByte(',')
		bw.WriteString(strconv.Itoa(cue.Line))
		bw.WriteString(",\"")
		bw.WriteString(cue.Text)
		if _, err := bw.WriteString("\"\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EncodeTable renders cues as table bytes.
func EncodeTable(cues []Cue) []byte {
	var buf bytes.Buffer
	_ = WriteTable(&buf, cues)
	return buf.Bytes()
}
