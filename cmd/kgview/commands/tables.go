package commands

import (
	"strconv"
	"strings"
	"time"

	"github.com/haivivi/kgview/pkg/graph"
	"github.com/haivivi/kgview/pkg/query"
	"github.com/haivivi/kgview/pkg/record"
	"github.com/haivivi/kgview/pkg/session"
)

// Result types implement cli.Table for -o table and marshal as plain
// data for yaml and json.

type statsResult struct {
	Table    string `json:"table" yaml:"table"`
	Vertices int    `json:"vertices" yaml:"vertices"`
	Edges    int    `json:"edges" yaml:"edges"`
}

func (statsResult) TableHeader() []string { return []string{"TABLE", "VERTICES", "EDGES"} }
func (s statsResult) TableRows() [][]string {
	return [][]string{{s.Table, strconv.Itoa(s.Vertices), strconv.Itoa(s.Edges)}}
}

type vertexRow struct {
	ID     graph.VertexID `json:"id" yaml:"id"`
	Label  string         `json:"label" yaml:"label"`
	Degree int            `json:"degree" yaml:"degree"`
}

type vertexList []vertexRow

func (vertexList) TableHeader() []string { return []string{"ID", "LABEL", "DEGREE"} }
func (l vertexList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, v := range l {
		rows = append(rows, []string{strconv.Itoa(int(v.ID)), v.Label, strconv.Itoa(v.Degree)})
	}
	return rows
}

type edgeList []graph.Edge

func (edgeList) TableHeader() []string { return []string{"ID", "SOURCE", "RELATION", "TARGET"} }
func (l edgeList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		rows = append(rows, []string{strconv.Itoa(int(e.ID)), e.SourceLabel, e.Relation, e.TargetLabel})
	}
	return rows
}

type labelList []string

func (labelList) TableHeader() []string { return []string{"LABEL"} }
func (l labelList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, s := range l {
		rows = append(rows, []string{s})
	}
	return rows
}

type relationList []string

func (relationList) TableHeader() []string { return []string{"RELATION"} }
func (l relationList) TableRows() [][]string { return labelList(l).TableRows() }

type recordList []record.Record

func (recordList) TableHeader() []string { return []string{"HEAD", "RELATION", "TAIL"} }
func (l recordList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		rows = append(rows, r.Fields())
	}
	return rows
}

type viewResult struct {
	Session string          `json:"session" yaml:"session"`
	View    query.View      `json:"view" yaml:"view"`
	Status  query.Status    `json:"status" yaml:"status"`
	Records []record.Record `json:"records" yaml:"records"`
}

func (viewResult) TableHeader() []string   { return recordList(nil).TableHeader() }
func (v viewResult) TableRows() [][]string { return recordList(v.Records).TableRows() }

type sessionList []*session.State

func (sessionList) TableHeader() []string {
	return []string{"ID", "RELATIONS", "SEARCH", "UPDATED"}
}
func (l sessionList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, s := range l {
		rels := strings.Join(s.View.Relations, ",")
		if s.View.AllRelations {
			rels = "(all)"
		}
		rows = append(rows, []string{s.ID, rels, s.View.Query, s.UpdatedAt.Local().Format(time.DateTime)})
	}
	return rows
}
