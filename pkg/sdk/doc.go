// Package geocatalog provides a Go client for the geocatalog metadata
// search API.
//
//	client, _ := geocatalog.New("http://localhost:8080",
//	    geocatalog.WithAPIKey("secret"),
//	)
//
//	results, _ := client.Search(ctx, geocatalog.SearchOptions{
//	    Query:  "water quality",
//	    BBox:   "-11.5,35.3,43.2,81.4",
//	    Filters: map[string][]string{"keyword": {"hydrology"}},
//	})
//
//	sources, _ := client.Sources(ctx)
//	record, _ := client.RawRecord(ctx, "record-id")
package geocatalog
