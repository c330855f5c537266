package commands

import "eth-telegram-bot/lib/translation"

func CommandStart() string {
	return translation.Translate("👋 Welcome to the Ethereum Bot! 🚀\n\n" +
		"🔑 Wallet Management:\n" +
		"  - /newwallet → Generate a new Ethereum wallet\n" +
		"  - /balance <ETH_ADDRESS> → Check ETH balance of a wallet\n\n" +
		"📊 Portfolio & Transactions:\n" +
		"  - /portfolio <ETH_ADDRESS> → View ETH, USDT, and ERC-20 assets\n" +
		"  - /tokens <ETH_ADDRESS> → View token balances\n" +
		"  - /transactions <ETH_ADDRESS> → Fetch latest transactions\n\n" +
		"🔥 Price & Gas Monitoring:\n" +
		"  - /alert <PRICE> → Set an ETH price alert\n" +
		"  - /gas → Get current Ethereum gas fees\n" +
		"  - /gasalert <GAS_PRICE> → Set a gas price alert\n" +
		"  - /watch <ETH_ADDRESS> → Monitor transactions for a wallet\n" +
		"  - /watchlist → List the wallets you are watching\n" +
		"  - /price [SYMBOL] → Current price of ETH and SOL, or of one coin\n" +
		"  - /price_all → Prices of every supported coin\n" +
		"  - /supported_coins → Supported coin symbols and names\n" +
		"  - /price_chart <SYMBOL> → 7-day price chart of a coin 📈\n" +
		"  - /pricemonitor → Monitor ETH price changes\n\n" +
		"💡 Type a command to get started!")
}

func CommandUnknown() string {
	return translation.Translate("⚠️ Unknown command. Type /start to see the available commands.")
}
