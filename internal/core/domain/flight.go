package domain

// Schedule is the flights document: from -> to -> weekday -> flight id -> departure time.
type Schedule map[string]map[string]map[string]map[string]string

// Departures maps weekday -> flight id -> departure time for one route.
type Departures map[string]map[string]string
