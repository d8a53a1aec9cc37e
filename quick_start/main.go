package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kingsmao/emx-connector/pkg/apierror"
	"github.com/kingsmao/emx-connector/pkg/logger"
	"github.com/kingsmao/emx-connector/pkg/schema"
	"github.com/kingsmao/emx-connector/pkg/sdk"
)

func main() {
	fmt.Println("=== EMX Connector 快速开始 ===")
	logger.Init()

	// 1. 加载配置：./emx.yaml 或 EMX_API_KEY / EMX_API_SECRET 环境变量
	cfg, err := sdk.LoadConfig("")
	if err != nil {
		fmt.Println("加载配置失败:", err)
		os.Exit(1)
	}
	cfg.Log.Apply()

	// 2. 创建SDK
	client, err := sdk.New(cfg)
	if err != nil {
		fmt.Println("创建SDK失败:", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	restExample(ctx, client)
	wsExample(ctx, client)
}

// restExample 查询账户列表
func restExample(ctx context.Context, client *sdk.SDK) {
	fmt.Println("查询账户...")
	res, err := client.REST().GetAccounts(ctx)
	if err != nil {
		var reqErr *apierror.RequestError
		if errors.As(err, &reqErr) {
			fmt.Printf("请求失败: status=%d reason=%s\n", reqErr.StatusCode, reqErr.Reason)
		} else {
			fmt.Println("请求异常:", err)
		}
		return
	}

	var accounts schema.AccountsResponse
	if err := res.Decode(&accounts); err != nil {
		fmt.Println(res)
		return
	}
	for _, a := range accounts.Accounts {
		fmt.Printf("账户 %s 别名=%q\n", a.TraderID, a.Alias)
	}
}

// wsExample 订阅 ETHH19 的订单与成交频道，直到出错或 Ctrl+C
func wsExample(ctx context.Context, client *sdk.SDK) {
	ws := client.WS()
	if err := ws.Connect(ctx); err != nil {
		fmt.Println("连接失败:", err)
		return
	}

	channels := []schema.Channel{schema.ChannelOrders, schema.ChannelTrading}
	if err := ws.Subscribe(ctx, []string{"ETHH19"}, channels); err != nil {
		fmt.Println("订阅失败:", err)
		return
	}

	fmt.Println("按 Ctrl+C 退出程序")
	for {
		frame, err := ws.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Println("\n收到退出信号，正在关闭...")
			} else {
				fmt.Println(err)
			}
			return
		}
		fmt.Println(frame)
	}
}
