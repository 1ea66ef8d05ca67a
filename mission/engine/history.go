package engine

import "time"

// AddCommandToHistory appends an executed command to the cumulative history
// and to the current segment
func (s *MissionState) AddCommandToHistory(command string, from, to Position, success bool, message, batchID string) {
	entry := CommandHistoryEntry{
		Command:       command,
		From:          from,
		To:            to,
		Success:       success,
		Message:       message,
		Timestamp:     time.Now().Unix(),
		CommandNumber: s.TotalCommands + 1,
		BatchID:       batchID,
	}
	s.CommandHistory = append(s.CommandHistory, entry)
	s.TotalCommands++

	s.CurrentCommands = append(s.CurrentCommands, entry)
	s.CurrentCommandsCount++
}
