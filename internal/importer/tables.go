package importer

type columnKind int

const (
	kindText columnKind = iota
	kindInt
	kindFloat
)

// Column is a catalog column and how CSV cells are converted for it
type Column struct {
	Name string
	Kind columnKind
}

// Table describes a catalog table loaded from <Name>.csv
type Table struct {
	Name    string
	Columns []Column
}

// ColumnNames returns the column names in load order
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func text(name string) Column { return Column{Name: name, Kind: kindText} }
func integer(name string) Column { return Column{Name: name, Kind: kindInt} }
func float(name string) Column { return Column{Name: name, Kind: kindFloat} }

// CatalogTables lists every table the importer replaces
var CatalogTables = []Table{
	{Name: "dept", Columns: []Column{
		text("dept_id"), text("title"), float("gpa"),
		integer("past_classes"), integer("unique_classes"), integer("new_classes"),
	}},
	{Name: "course", Columns: []Column{
		text("course_id"), text("dept"), text("title"), integer("credits"), float("gpa"),
		integer("enrollment"), integer("withdraw"), integer("past_classes"), integer("new_classes"),
	}},
	{Name: "instructor", Columns: []Column{
		text("instructor_id"), text("last_name"), text("dept"), float("gpa"),
		integer("enrollment"), integer("withdraw"), integer("past_classes"), integer("new_classes"),
	}},
	{Name: "past_instance", Columns: []Column{
		text("instance_id"), text("course_id"), text("instructor_id"), text("year"), text("term"),
		text("crn"), float("gpa"), integer("withdraw"), integer("enrollment"),
	}},
	{Name: "new_instance", Columns: []Column{
		text("crn"), text("dept"), text("course_id"), text("instructor_id"), text("title"),
		text("modality"), integer("credits"), integer("capacity"), text("days"),
		text("start_time"), text("end_time"), text("location"),
	}},
	{Name: "instructor_course_stats", Columns: []Column{
		text("stat_id"), text("course_id"), text("instructor_id"), float("gpa"),
		integer("enrollment"), integer("withdraw"), integer("past_classes"),
	}},
}
