package db

import "github.com/xinsproject/servicecall/db/types"

type Querier = types.Querier

type DBer = types.DBer

type SQLTxer = types.SQLTxer

type Txer = types.Txer
