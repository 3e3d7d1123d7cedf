package utils

import (
	"fmt"

	"github.com/vuuvv/errors"
	"github.com/vuuvv/qnet6/log"
)

func Catch(handler func(reason any)) {
	if r := recover(); r != nil {
		log.Recovered(r)
		handler(r)
	}
}

// CallWithError 执行 fn, 将 panic 转换为错误返回
func CallWithError(fn func() error) (err error) {
	defer Catch(func(reason any) {
		if e, ok := reason.(error); ok {
			err = errors.WithStack(e)
			return
		}
		err = errors.New(fmt.Sprint(reason))
	})
	return fn()
}
