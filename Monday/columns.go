package Monday

// Board ids for the single deployment this app is wired to. There is no
// schema discovery; these match the platform workspace exactly.
const (
	TasksBoardID    int64 = 18392796088 // work orders
	SubitemsBoardID int64 = 18392796093 // technician reports
	SummaryBoardID  int64 = 18394724561 // visit summaries
)

// Task board columns.
const (
	TechnicianColumn      = "person"
	ProjectRelationColumn = "board_relation_mkxtadm5"
	ProjectNumberColumn   = "numeric_mkyx9yah"
	RequiredColumn        = "numeric_mkxqmet4"
	DoneColumn            = "numeric_mkytx33q"
	RemainColumn          = "numeric_mkyw4ps"
)

// Report subitem columns.
const (
	ReportDateColumn      = "date0"
	BuildingColumn        = "text_mkys4gay"
	FloorColumn           = "text_mkysh2sm"
	ApartmentColumn       = "text_mkys78jp"
	LocationDescColumn    = "text_mkys1ted"
	NotesColumn           = "text_mkysdz8f"
	ReportStatusColumn    = "status"
	ReportFileColumn      = "file_mkys7yjr"
	SummaryBacklinkColumn = "numeric_mkzh3g1k"
)

// Visit summary columns.
const (
	SummaryTechnicianColumn  = "person"
	SummaryStatusColumn      = "status"
	SummaryDateColumn        = "date4"
	SummaryProjectNameColumn = "text_mkze5fwc"
	SummaryProjectIDColumn   = "numeric_mkzeabjg"
	ClientNameColumn         = "text_mkzf3p9x"
	ClientRoleColumn         = "text_mkzf6812"
	TechSignatureColumn      = "file_mkzep2yv"
	ClientSignatureColumn    = "file_mkzeqt6"
)

// Status labels as they appear on the boards.
const (
	StatusDone   = "Done"
	StatusSigned = "חתום ומאושר"
)
