package register

import (
	_ "github.com/xxxsen/ncfolder/notify/telegram"
)
