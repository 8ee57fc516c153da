package client

import (
	"time"
)

var (
	time0 = time.Date(2018, 4, 1, 0, 0, 0, 0, time.UTC)
	time1 = time0.Add(time.Second)
)
