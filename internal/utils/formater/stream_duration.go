package formater

import (
	"fmt"
	"time"
)

// StreamDuration renders how long a stream has been live as HH:MM:SS.
func StreamDuration(startedAt time.Time) string {

	streamDuration := time.Since(startedAt)
	if streamDuration < 0 {
		streamDuration = 0
	}

	hours := streamDuration / time.Hour
	streamDuration = streamDuration % time.Hour
	minutes := streamDuration / time.Minute
	streamDuration = streamDuration % time.Minute
	seconds := streamDuration / time.Second

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
