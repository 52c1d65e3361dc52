package dto

type EngineInfo struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
	Kinds   []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}
