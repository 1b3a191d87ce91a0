// Package all registers every fetch source as a side effect of importing it:
//
//	import _ "github.com/Vodeneev/tipsbot/internal/fetcher/all"
package all

import (
	_ "github.com/Vodeneev/tipsbot/internal/fetcher/apifootball"
	_ "github.com/Vodeneev/tipsbot/internal/fetcher/oddsapi"
	_ "github.com/Vodeneev/tipsbot/internal/fetcher/synthetic"
)
