package usecase

import "time"

// SchedulePreviewTTL is how long no-save schedule previews are cached.
const SchedulePreviewTTL = time.Hour
