package main

import "nushcenume/catalog"

// DetailsLoadedMsg is sent when a title's detail fetch completes
type DetailsLoadedMsg struct {
	Ref     catalog.Ref
	Details *catalog.Details
	Err     error
}

// ResultsLoadedMsg is sent when a full search completes
type ResultsLoadedMsg struct {
	Query   string
	Results []catalog.Suggestion
	Err     error
}
