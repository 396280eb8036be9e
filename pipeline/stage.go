package pipeline

// Stage identifies the part of the frame currently executing
type Stage uint8

const (
	StageIdle Stage = iota
	StageUpdate
	StageCollision
	StageRender
	StagePresent
)

var stageNames = [...]string{"idle", "update", "collision", "render", "present"}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}
