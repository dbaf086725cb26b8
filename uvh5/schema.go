package uvh5

import "github.com/robert-malhotra/go-uvh5/h5store"

const (
	headerGroup  = "/Header"
	dataGroup    = "/Data"
	catalogGroup = "/Header/phase_center_catalog"
)

// Fixed string sizes for text datasets.
const (
	maxHistoryLen = 20000
	maxNameLen    = 200
	maxEnumLen    = 20
)

// legacy single phase center fields.
const (
	phaseCenterRA    = "phase_center_ra"
	phaseCenterDec   = "phase_center_dec"
	phaseCenterEpoch = "phase_center_epoch"
	phaseCenterFrame = "phase_center_frame"
)

const (
	legacyZenithName = "zenith"
	unknownValue     = "unknown"
)

func header(name string) string { return h5store.JoinPath(headerGroup, name) }

func data(name string) string { return h5store.JoinPath(dataGroup, name) }
