package regseed

var Usage = `<options> <num records>

Populate a MongoDB registrations collection with randomized test records.
Each record carries a name, age, city, email, free-text notes, a coordinate
constrained to land polygons, and an optional image payload. The record
count can be given as the positional argument, with --num, or interactively.`

// GenerationOptions defines the knobs for building the record batch.
type GenerationOptions struct {
	Num       uint   `long:"num" short:"n" value-name:"<count>" description:"number of records to generate and insert"`
	LandFile  string `long:"landFile" value-name:"<filename>" default:"geodata/land.geojson" description:"GeoJSON file of land polygons constraining record coordinates"`
	Images    string `long:"images" choice:"cat" choice:"drawn" choice:"none" description:"image payload type (prompted for interactively when omitted)"`
	ImageSize int    `long:"imageSize" value-name:"<pixels>" default:"100" description:"edge length of drawn image payloads"`
}

// Name returns a description of the GenerationOptions struct.
func (*GenerationOptions) Name() string {
	return "generation"
}

// IngestOptions defines options used when inserting the batch.
type IngestOptions struct {
	Drop         bool   `long:"drop" description:"drop the collection before inserting"`
	WriteConcern string `long:"writeConcern" short:"w" value-name:"<write-concern>" description:"write concern for the bulk insert, a number or a mode name like 'majority' (default: 1)"`
}

// Name returns a description of the IngestOptions struct.
func (*IngestOptions) Name() string {
	return "ingest"
}
