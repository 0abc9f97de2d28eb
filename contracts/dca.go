package contracts

const dcaABI = `
[
  {
    "name": "createPosition",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      { "name": "_tokenIn", "type": "address" },
      { "name": "_tokenOut", "type": "address" },
      { "name": "_amountPerTrade", "type": "uint256" },
      { "name": "_interval", "type": "uint256" },
      { "name": "_totalDeposit", "type": "uint256" }
    ],
    "outputs": []
  },
  {
    "name": "executeDCA",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [{ "name": "_positionId", "type": "uint256" }],
    "outputs": []
  },
  {
    "name": "positions",
    "type": "function",
    "stateMutability": "view",
    "inputs": [{ "name": "", "type": "uint256" }],
    "outputs": [
      { "name": "owner", "type": "address" },
      { "name": "tokenIn", "type": "address" },
      { "name": "tokenOut", "type": "address" },
      { "name": "amountPerTrade", "type": "uint256" },
      { "name": "interval", "type": "uint256" },
      { "name": "lastExecution", "type": "uint256" },
      { "name": "totalBalance", "type": "uint256" },
      { "name": "isActive", "type": "bool" }
    ]
  },
  {
    "name": "nextPositionId",
    "type": "function",
    "stateMutability": "view",
    "inputs": [],
    "outputs": [{ "name": "", "type": "uint256" }]
  },
  {
    "name": "Deposited",
    "type": "event",
    "anonymous": false,
    "inputs": [
      { "name": "positionId", "type": "uint256", "indexed": true },
      { "name": "amount", "type": "uint256", "indexed": false }
    ]
  },
  {
    "name": "Executed",
    "type": "event",
    "anonymous": false,
    "inputs": [
      { "name": "positionId", "type": "uint256", "indexed": true },
      { "name": "amountIn", "type": "uint256", "indexed": false },
      { "name": "amountOut", "type": "uint256", "indexed": false }
    ]
  }
]
`
