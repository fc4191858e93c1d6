package database

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type MySql struct{}

func (*MySql) Load(url string) gorm.Dialector {
	if url == "" {
		url = "discord:discord@/discord?charset=utf8mb4&parseTime=True"
	}
	return mysql.Open(url)
}

func (*MySql) MaxOpenConns() int {
	return 10
}

func init() {
	dialects["mysql"] = &MySql{}
}
