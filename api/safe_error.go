package api

import (
	"seisan/config"
)

// SafeErrorMessage release モードでは内部エラーの詳細をクライアントへ返さない
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}
