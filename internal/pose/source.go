package pose

// Source supplies the latest pose sample from a landmark detector.
// Latest returns nil when no pose was detected for the most recent frame
// or when no sample has arrived yet.
type Source interface {
	Latest() *Pose
}
